package main

import (
	"context"

	"pet-household/internal/adapters/storage/sqldb"
	"pet-household/internal/config"
	"pet-household/internal/platform/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cli carries state shared by every sub-command.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.NewViper()}

	root := &cobra.Command{
		Use:           "pet-household",
		Short:         "Persons, partners and pets API",
		Long:          "Serves the persons and pets API. Without a sub-command it behaves like 'serve'.",
		SilenceUsage: true,
		RunE:         c.runServe,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "Path to a YAML config file")
	flags.String("db-driver", "", "Database driver: sqlite or pgx")
	flags.String("db-dsn", "", "Database DSN (file path for sqlite)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")

	c.bind("db.driver", flags.Lookup("db-driver"))
	c.bind("db.dsn", flags.Lookup("db-dsn"))
	c.bind("log.level", flags.Lookup("log-level"))
	c.bind("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		c.newServeCmd(),
		c.newMigrateCmd(),
		c.newHealthcheckCmd(),
	)
	return root
}

func (c *cli) bind(key string, f *pflag.Flag) {
	if err := c.v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func (c *cli) load() (config.Config, logger.Logger, error) {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})
	return cfg, log, nil
}

// openDB connects with the configured pool settings. obs may be nil.
func openDB(ctx context.Context, cfg config.Config, log logger.Logger, obs sqldb.Observer) (*sqldb.DB, error) {
	opts, err := cfg.DBOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = log
	opts.Observer = obs
	return sqldb.Open(ctx, opts)
}

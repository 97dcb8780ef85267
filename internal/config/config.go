// Package config loads runtime settings from defaults, an optional YAML
// file and PETHOUSE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pet-household/internal/adapters/storage/sqldb"

	"github.com/spf13/viper"
)

const EnvPrefix = "PETHOUSE"

// DriverMemory selects the in-process store; nothing survives a restart.
const DriverMemory = "memory"

type Config struct {
	App  AppConfig  `mapstructure:"app"`
	HTTP HTTPConfig `mapstructure:"http"`
	DB   DBConfig   `mapstructure:"db"`
	Log  LogConfig  `mapstructure:"log"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
}

type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	TxMaxRetries    uint          `mapstructure:"tx_max_retries"`
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NewViper returns a viper instance with defaults and env binding in place.
// Flags can be bound to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every key. PORT and DB_DSN are still honoured as
// defaults for older deployments; DB_DSN implies Postgres.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pet-household")

	addr := ":8080"
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		addr = ":" + port
	}
	v.SetDefault("http.address", addr)
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("http.allowed_origins", []string{"*"})

	driver, dsn := string(sqldb.DriverSQLite), "pet-household.db"
	if legacy := strings.TrimSpace(os.Getenv("DB_DSN")); legacy != "" {
		driver, dsn = string(sqldb.DriverPostgres), legacy
	}
	v.SetDefault("db.driver", driver)
	v.SetDefault("db.dsn", dsn)
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_idle_time", 5*time.Minute)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("db.tx_max_retries", 5)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the optional file at path and decodes everything into Config.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Address) == "" {
		errs = append(errs, errors.New("http.address is required"))
	}
	if !c.DB.InMemory() {
		if _, err := sqldb.ParseDriver(c.DB.Driver); err != nil {
			errs = append(errs, fmt.Errorf("db.driver: %w", err))
		}
		if strings.TrimSpace(c.DB.DSN) == "" {
			errs = append(errs, errors.New("db.dsn is required"))
		}
	}
	if c.HTTP.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

func (c DBConfig) InMemory() bool {
	return strings.EqualFold(strings.TrimSpace(c.Driver), DriverMemory)
}

// DBOptions maps the db section onto sqldb.Options.
func (c Config) DBOptions() (sqldb.Options, error) {
	driver, err := sqldb.ParseDriver(c.DB.Driver)
	if err != nil {
		return sqldb.Options{}, err
	}
	return sqldb.Options{
		Driver:          driver,
		DSN:             c.DB.DSN,
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxIdleTime: c.DB.ConnMaxIdleTime,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
		TxMaxTries:      c.DB.TxMaxRetries,
	}, nil
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create the tables, applying every pending migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := c.load()
				if err != nil {
					return err
				}
				db, err := openDB(cmd.Context(), cfg, log, nil)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				return db.MigrateUp(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop the tables, rolling back every migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := c.load()
				if err != nil {
					return err
				}
				db, err := openDB(cmd.Context(), cfg, log, nil)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				return db.MigrateDown(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := c.load()
				if err != nil {
					return err
				}
				db, err := openDB(cmd.Context(), cfg, log, nil)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				status, err := db.MigrationStatus(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tSTATE\tSOURCE")
				for _, s := range status {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.Path)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}

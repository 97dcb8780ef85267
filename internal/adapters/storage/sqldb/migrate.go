package sqldb

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrationStatus describes one known migration.
type MigrationStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

func (d *DB) migrationProvider() (*goose.Provider, error) {
	dir, dialect := "migrations/sqlite", goose.DialectSQLite3
	if d.driver == DriverPostgres {
		dir, dialect = "migrations/postgres", goose.DialectPostgres
	}

	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations dir %s: %w", dir, err)
	}

	p, err := goose.NewProvider(dialect, d.x.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// MigrateUp applies every pending migration.
func (d *DB) MigrateUp(ctx context.Context) error {
	p, err := d.migrationProvider()
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	for _, r := range results {
		d.logResult(r)
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back every applied migration.
func (d *DB) MigrateDown(ctx context.Context) error {
	p, err := d.migrationProvider()
	if err != nil {
		return err
	}

	results, err := p.DownTo(ctx, 0)
	for _, r := range results {
		d.logResult(r)
	}
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

func (d *DB) MigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	p, err := d.migrationProvider()
	if err != nil {
		return nil, err
	}

	list, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(list))
	for _, s := range list {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

func (d *DB) logResult(r *goose.MigrationResult) {
	if r == nil || r.Source == nil {
		return
	}
	fields := map[string]any{
		"version":   r.Source.Version,
		"direction": r.Direction,
		"duration":  r.Duration.String(),
	}
	if r.Error != nil {
		fields["error"] = r.Error
		d.log.Error("migration failed", fields)
		return
	}
	d.log.Info("migration applied", fields)
}

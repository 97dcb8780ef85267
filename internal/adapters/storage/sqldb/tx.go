package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
)

// InTx runs fn in a transaction. fn's error rolls everything back. A
// serialization failure, deadlock or busy database restarts fn from scratch
// with exponential backoff, up to the configured number of tries.
func (d *DB) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	start := time.Now()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := d.runTx(ctx, fn)
		if err != nil && !isRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(d.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			if d.obs != nil {
				d.obs.TxRetried()
			}
			d.log.Warn("retrying transaction", map[string]any{
				"error": err,
				"wait":  wait.String(),
			})
		}),
	)

	if d.obs != nil {
		d.obs.TxFinished(time.Since(start), err)
	}
	return err
}

func (d *DB) runTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := d.x.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			d.log.Warn("rollback failed", map[string]any{"error": rbErr})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

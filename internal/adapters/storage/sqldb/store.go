package sqldb

import (
	"context"

	"pet-household/internal/domain/persons"
	"pet-household/internal/domain/pets"

	"github.com/jmoiron/sqlx"
)

// Store hands out repositories bound either to the pool or to one open
// transaction.
type Store struct {
	db   *DB
	ext  sqlx.ExtContext
	inTx bool
}

var _ persons.Store = (*Store)(nil)

func NewStore(db *DB) *Store {
	return &Store{db: db, ext: db.x}
}

func (s *Store) Persons() persons.Repository { return personsRepo{ext: s.ext} }

func (s *Store) PetOwnership() persons.PetOwnership { return petsRepo{ext: s.ext} }

func (s *Store) Pets() pets.Repository { return petsRepo{ext: s.ext} }

// WithinTx runs fn with a Store whose repositories share one transaction.
// Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx persons.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.InTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&Store{db: s.db, ext: tx, inTx: true})
	})
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Package memory is an in-process persons.Store for development and tests.
// WithinTx holds a single lock and restores a snapshot on error, so the
// coordinator gets the same all-or-nothing behaviour as with SQL.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-household/internal/domain/persons"
	"pet-household/internal/domain/pets"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrSelfPartner   = errors.New("person cannot be its own partner")
	ErrUnknownPerson = errors.New("referenced person does not exist")
)

type state struct {
	persons    map[int64]persons.Person
	pets       map[int64]pets.Pet
	lastPerson int64
	lastPet    int64
}

func (s state) clone() state {
	out := state{
		persons:    make(map[int64]persons.Person, len(s.persons)),
		pets:       make(map[int64]pets.Pet, len(s.pets)),
		lastPerson: s.lastPerson,
		lastPet:    s.lastPet,
	}
	for id, p := range s.persons {
		out.persons[id] = p
	}
	for id, p := range s.pets {
		out.pets[id] = p
	}
	return out
}

type db struct {
	mu sync.RWMutex
	st state
}

// view runs fn under the read lock unless the caller already holds the
// write lock.
func (d *db) view(held bool, fn func(st *state)) {
	if !held {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	fn(&d.st)
}

func (d *db) update(held bool, fn func(st *state)) {
	if !held {
		d.mu.Lock()
		defer d.mu.Unlock()
	}
	fn(&d.st)
}

type Store struct {
	db   *db
	inTx bool
}

var _ persons.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{db: &db{st: state{
		persons: make(map[int64]persons.Person),
		pets:    make(map[int64]pets.Pet),
	}}}
}

func (s *Store) Persons() persons.Repository { return personsRepo{db: s.db, held: s.inTx} }

func (s *Store) PetOwnership() persons.PetOwnership { return petsRepo{db: s.db, held: s.inTx} }

func (s *Store) Pets() pets.Repository { return petsRepo{db: s.db, held: s.inTx} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx persons.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	snapshot := s.db.st.clone()
	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		s.db.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func newestFirst[T any](items []T, id func(T) int64) []T {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) > id(items[j]) })
	return items
}

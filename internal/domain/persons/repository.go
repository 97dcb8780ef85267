package persons

import (
	"context"
	"errors"
)

// ErrPartnerTaken is returned by a Repository when a pairing write lost: the
// target row is paired with someone else or the partner is already claimed.
var ErrPartnerTaken = errors.New("partner already taken")

type Repository interface {
	GetByID(ctx context.Context, id int64) (Person, bool, error)
	// List returns every person, newest first.
	List(ctx context.Context) ([]Person, error)
	Insert(ctx context.Context, p Person) (int64, error)
	UpdateNames(ctx context.Context, p Person) error
	// SetPartner points id at partnerID, only if id is unpaired or already
	// points there. Otherwise it returns ErrPartnerTaken.
	SetPartner(ctx context.Context, id, partnerID int64) error
	// ClearPartner unpairs id if it still points at formerPartnerID.
	ClearPartner(ctx context.Context, id, formerPartnerID int64) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// PetOwnership is the slice of pet storage the coordinator needs for the
// removal cascade. Declared here so persons never imports pets.
type PetOwnership interface {
	// ReassignOwner moves every pet owned by from to to (nil = no owner)
	// and reports how many pets moved.
	ReassignOwner(ctx context.Context, from int64, to *int64) (int64, error)
}

// Store groups the repositories and runs fn inside one transaction.
// Repositories obtained from the Store passed to fn share that transaction.
type Store interface {
	Persons() Repository
	PetOwnership() PetOwnership
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

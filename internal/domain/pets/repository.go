package pets

import (
	"context"
	"errors"
)

// ErrOwnerMissing is returned by Insert when the owner row no longer exists.
var ErrOwnerMissing = errors.New("owner does not exist")

type Repository interface {
	GetByOwner(ctx context.Context, ownerID, petID int64) (Pet, bool, error)
	// List returns the pets matching filter, newest first.
	List(ctx context.Context, filter OwnerFilter) ([]Pet, error)
	Insert(ctx context.Context, p Pet) (int64, error)
}

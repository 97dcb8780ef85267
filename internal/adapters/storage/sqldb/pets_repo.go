package sqldb

import (
	"context"
	"fmt"

	"pet-household/internal/domain/pets"

	"github.com/jmoiron/sqlx"
)

var petsTable = NewTable[pets.Pet]("pets", "id", "name", "owner_id")

type petsRepo struct {
	ext sqlx.ExtContext
}

func (r petsRepo) GetByOwner(ctx context.Context, ownerID, petID int64) (pets.Pet, bool, error) {
	return petsTable.First(ctx, r.ext, Filter{
		Where: "id = ? AND owner_id = ?",
		Args:  []any{petID, ownerID},
	})
}

func (r petsRepo) List(ctx context.Context, filter pets.OwnerFilter) ([]pets.Pet, error) {
	var f Filter
	if ownerID, ok := filter.Owner(); ok {
		f = Filter{Where: "owner_id = ?", Args: []any{ownerID}}
	} else if filter.IsUnowned() {
		f = Filter{Where: "owner_id IS NULL"}
	}
	return petsTable.List(ctx, r.ext, f, "id DESC")
}

func (r petsRepo) Insert(ctx context.Context, p pets.Pet) (int64, error) {
	id, err := petsTable.Insert(ctx, r.ext, Fields{
		"name":     p.Name,
		"owner_id": nullableID(p.OwnerID),
	})
	if isForeignKeyViolation(err) {
		return 0, fmt.Errorf("insert pet: %w", pets.ErrOwnerMissing)
	}
	return id, err
}

// ReassignOwner moves all pets of from to to, or leaves them unowned when to
// is nil.
func (r petsRepo) ReassignOwner(ctx context.Context, from int64, to *int64) (int64, error) {
	return petsTable.UpdateWhere(ctx, r.ext,
		Fields{"owner_id": nullableID(to)},
		Filter{Where: "owner_id = ?", Args: []any{from}},
	)
}

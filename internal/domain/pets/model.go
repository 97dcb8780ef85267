package pets

import "pet-household/internal/domain/persons"

// Pet is an animal optionally owned by a person. OwnerID is a weak
// reference: the pet outlives its owner.
type Pet struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	OwnerID *int64 `db:"owner_id"`
}

// View is a pet with its owner resolved.
type View struct {
	Pet
	Owner *persons.Person
}

type filterKind int

const (
	filterAny filterKind = iota
	filterOwnedBy
	filterUnowned
)

// OwnerFilter selects pets by owner for Repository.List.
type OwnerFilter struct {
	kind    filterKind
	ownerID int64
}

// AnyOwner matches every pet.
func AnyOwner() OwnerFilter { return OwnerFilter{kind: filterAny} }

// OwnedBy matches pets whose owner is exactly ownerID.
func OwnedBy(ownerID int64) OwnerFilter { return OwnerFilter{kind: filterOwnedBy, ownerID: ownerID} }

// Unowned matches pets with no owner.
func Unowned() OwnerFilter { return OwnerFilter{kind: filterUnowned} }

// Owner returns the owner id for an OwnedBy filter.
func (f OwnerFilter) Owner() (int64, bool) {
	return f.ownerID, f.kind == filterOwnedBy
}

func (f OwnerFilter) IsUnowned() bool { return f.kind == filterUnowned }

package pets

import (
	"context"

	"pet-household/internal/domain/persons"
	"pet-household/internal/platform/apperr"
)

// OwnerLookup resolves owners. persons.Service satisfies it; the interface
// keeps pets from depending on the coordinator itself.
type OwnerLookup interface {
	Find(ctx context.Context, id int64) (persons.Person, bool, error)
}

// requireOwner resolves ownerID or fails NotFound with msg.
func (s *Service) requireOwner(ctx context.Context, ownerID int64, msg string) (persons.Person, error) {
	owner, ok, err := s.owners.Find(ctx, ownerID)
	if err != nil {
		return persons.Person{}, apperr.Wrap(err)
	}
	if !ok {
		return persons.Person{}, apperr.NotFoundError(msg)
	}
	return owner, nil
}

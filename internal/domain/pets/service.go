package pets

import (
	"context"
	"errors"
	"strings"

	"pet-household/internal/platform/apperr"
)

const (
	msgOwnerNotFound = "Owner not found"
	msgPetNotFound   = "Person and/or pet not found"
	msgNameRequired  = "Name is required"
)

type Service struct {
	repo   Repository
	owners OwnerLookup
}

func NewService(repo Repository, owners OwnerLookup) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
	}
}

type CreateInput struct {
	Name string
}

// Create adds a pet owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID int64, in CreateInput) (View, error) {
	owner, err := s.requireOwner(ctx, ownerID, msgOwnerNotFound)
	if err != nil {
		return View{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return View{}, apperr.InvalidRequest(msgNameRequired)
	}

	p := Pet{Name: name, OwnerID: &owner.ID}
	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		// The owner was removed between the lookup and the insert.
		if errors.Is(err, ErrOwnerMissing) {
			return View{}, apperr.NotFoundError(msgOwnerNotFound)
		}
		return View{}, apperr.Wrap(err)
	}
	p.ID = id

	return View{Pet: p, Owner: &owner}, nil
}

// CreateUnowned adds a pet with no owner.
func (s *Service) CreateUnowned(ctx context.Context, in CreateInput) (View, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return View{}, apperr.InvalidRequest(msgNameRequired)
	}

	p := Pet{Name: name}
	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return View{}, apperr.Wrap(err)
	}
	p.ID = id
	return View{Pet: p}, nil
}

func (s *Service) Get(ctx context.Context, ownerID, petID int64) (View, error) {
	p, ok, err := s.repo.GetByOwner(ctx, ownerID, petID)
	if err != nil {
		return View{}, apperr.Wrap(err)
	}
	if !ok {
		return View{}, apperr.NotFoundError(msgPetNotFound)
	}

	owner, err := s.requireOwner(ctx, ownerID, msgPetNotFound)
	if err != nil {
		return View{}, err
	}
	return View{Pet: p, Owner: &owner}, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]View, error) {
	owner, err := s.requireOwner(ctx, ownerID, msgOwnerNotFound)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, OwnedBy(ownerID))
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	out := make([]View, 0, len(items))
	for _, p := range items {
		out = append(out, View{Pet: p, Owner: &owner})
	}
	return out, nil
}

func (s *Service) ListUnowned(ctx context.Context) ([]View, error) {
	items, err := s.repo.List(ctx, Unowned())
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	out := make([]View, 0, len(items))
	for _, p := range items {
		out = append(out, View{Pet: p})
	}
	return out, nil
}

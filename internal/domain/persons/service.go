package persons

import (
	"context"
	"errors"
	"strings"

	"pet-household/internal/platform/apperr"
	"pet-household/internal/platform/logger"
)

const (
	msgPersonNotFound  = "Person not found"
	msgPartnerNotFound = "Partner not found"
	msgPartnerMarried  = "Partner already married"
	msgPartnerMismatch = "Partner does not match partner_id"
	msgSelfPairing     = "A person cannot be paired with themselves"
	msgFirstName       = "First name is required"
	msgLastName        = "Last name is required"
)

// Observer receives the outcome of every write operation.
type Observer interface {
	ObserveOperation(op string, err error)
}

// Service coordinates every operation that touches more than one record:
// pairing, updates that form a pairing, and removal with its pet cascade.
// Each of those runs in a single Store transaction, so a failed
// precondition or a lost race leaves no partial writes behind.
type Service struct {
	store Store
	obs   Observer
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// WithObserver attaches an Observer; nil disables observation.
func (s *Service) WithObserver(o Observer) *Service {
	s.obs = o
	return s
}

type CreateInput struct {
	FirstName string
	LastName  string
	PartnerID *int64
}

// UpdateInput fields are optional; nil means "leave unchanged".
type UpdateInput struct {
	FirstName *string
	LastName  *string
	PartnerID *int64
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	items, err := s.store.Persons().List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	byID := make(map[int64]Person, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}

	out := make([]View, 0, len(items))
	for _, p := range items {
		v := View{Person: p}
		if p.PartnerID != nil {
			if partner, ok := byID[*p.PartnerID]; ok {
				v.Partner = &partner
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	return view(ctx, s.store.Persons(), id)
}

// Find returns the person with id, if any. It is the owner lookup used by
// the pets service.
func (s *Service) Find(ctx context.Context, id int64) (Person, bool, error) {
	p, ok, err := s.store.Persons().GetByID(ctx, id)
	if err != nil {
		return Person{}, false, apperr.Wrap(err)
	}
	return p, ok, nil
}

// Create inserts a person, optionally paired with an existing unpaired
// person. If the pairing cannot be formed nothing is persisted.
func (s *Service) Create(ctx context.Context, in CreateInput) (v View, err error) {
	defer func() { s.observe("create", err) }()

	first := strings.TrimSpace(in.FirstName)
	if first == "" {
		return View{}, apperr.InvalidRequest(msgFirstName)
	}
	last := strings.TrimSpace(in.LastName)
	if last == "" {
		return View{}, apperr.InvalidRequest(msgLastName)
	}

	err = s.store.WithinTx(ctx, func(tx Store) error {
		repo := tx.Persons()

		var partner *Person
		if in.PartnerID != nil {
			p, err := availablePartner(ctx, repo, *in.PartnerID)
			if err != nil {
				return err
			}
			partner = &p
		}

		p := Person{FirstName: first, LastName: last, PartnerID: in.PartnerID}
		id, err := repo.Insert(ctx, p)
		if err != nil {
			return pairingError(err)
		}
		p.ID = id

		if partner != nil {
			if err := link(ctx, repo, p.ID, partner.ID); err != nil {
				return err
			}
			partner.PartnerID = &p.ID
		}

		v = View{Person: p, Partner: partner}
		return nil
	})
	if err != nil {
		return View{}, apperr.Wrap(err)
	}
	return v, nil
}

// Update overwrites the supplied names and, for an unpaired person, forms a
// pairing with PartnerID. An existing pairing can only be confirmed, never
// switched.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (v View, err error) {
	defer func() { s.observe("update", err) }()

	err = s.store.WithinTx(ctx, func(tx Store) error {
		repo := tx.Persons()

		p, ok, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFoundError(msgPersonNotFound)
		}

		if in.FirstName != nil {
			first := strings.TrimSpace(*in.FirstName)
			if first == "" {
				return apperr.InvalidRequest(msgFirstName)
			}
			p.FirstName = first
		}
		if in.LastName != nil {
			last := strings.TrimSpace(*in.LastName)
			if last == "" {
				return apperr.InvalidRequest(msgLastName)
			}
			p.LastName = last
		}

		var partner *Person
		switch {
		case in.PartnerID == nil:
		case p.Paired():
			if *in.PartnerID != *p.PartnerID {
				return apperr.InvalidRequest(msgPartnerMismatch)
			}
		default:
			formed, err := pair(ctx, repo, p.ID, *in.PartnerID)
			if err != nil {
				return err
			}
			p.PartnerID = &formed.ID
			partner = &formed
		}

		if err := repo.UpdateNames(ctx, p); err != nil {
			return err
		}

		if partner == nil && p.Paired() {
			current, ok, err := repo.GetByID(ctx, *p.PartnerID)
			if err != nil {
				return err
			}
			if ok {
				partner = &current
			}
		}

		v = View{Person: p, Partner: partner}
		return nil
	})
	if err != nil {
		return View{}, apperr.Wrap(err)
	}
	return v, nil
}

// Remove deletes a person and cascades: its pets move to the partner (or to
// no owner) and the partner becomes unpaired. A missing id is not an error,
// it removes zero rows.
func (s *Service) Remove(ctx context.Context, id int64) (removed int64, err error) {
	defer func() { s.observe("remove", err) }()

	var (
		partnerID *int64
		moved     int64
	)

	err = s.store.WithinTx(ctx, func(tx Store) error {
		repo := tx.Persons()

		p, ok, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			removed = 0
			return nil
		}

		// The partner must be read before the row is gone.
		partnerID = p.PartnerID

		moved, err = tx.PetOwnership().ReassignOwner(ctx, p.ID, partnerID)
		if err != nil {
			return err
		}

		if partnerID != nil {
			if err := repo.ClearPartner(ctx, *partnerID, p.ID); err != nil {
				return err
			}
		}

		removed, err = repo.Delete(ctx, p.ID)
		return err
	})
	if err != nil {
		return 0, apperr.Wrap(err)
	}

	if removed > 0 {
		fields := map[string]any{"person_id": id, "pets_reassigned": moved}
		if partnerID != nil {
			fields["partner_id"] = *partnerID
		}
		logger.FromContext(ctx).Info("person removed", fields)
	}
	return removed, nil
}

func (s *Service) observe(op string, err error) {
	if s.obs != nil {
		s.obs.ObserveOperation(op, err)
	}
}

func view(ctx context.Context, repo Repository, id int64) (View, error) {
	p, ok, err := repo.GetByID(ctx, id)
	if err != nil {
		return View{}, apperr.Wrap(err)
	}
	if !ok {
		return View{}, apperr.NotFoundError(msgPersonNotFound)
	}

	v := View{Person: p}
	if p.PartnerID != nil {
		partner, ok, err := repo.GetByID(ctx, *p.PartnerID)
		if err != nil {
			return View{}, apperr.Wrap(err)
		}
		if ok {
			v.Partner = &partner
		}
	}
	return v, nil
}

// pair forms the pairing selfID <-> partnerID. selfID must exist and be
// unpaired; the returned partner reflects the write.
func pair(ctx context.Context, repo Repository, selfID, partnerID int64) (Person, error) {
	if selfID == partnerID {
		return Person{}, apperr.InvalidRequest(msgSelfPairing)
	}

	partner, err := availablePartner(ctx, repo, partnerID)
	if err != nil {
		return Person{}, err
	}
	if err := link(ctx, repo, selfID, partner.ID); err != nil {
		return Person{}, err
	}

	partner.PartnerID = &selfID
	return partner, nil
}

// availablePartner resolves partnerID and checks it is unpaired.
func availablePartner(ctx context.Context, repo Repository, partnerID int64) (Person, error) {
	partner, ok, err := repo.GetByID(ctx, partnerID)
	if err != nil {
		return Person{}, err
	}
	if !ok {
		return Person{}, apperr.NotFoundError(msgPartnerNotFound)
	}
	if partner.Paired() {
		return Person{}, apperr.ConflictError(msgPartnerMarried)
	}
	return partner, nil
}

// link writes both sides of a pairing with conditional writes. A concurrent
// pairing that got there first makes one of them fail with Conflict.
func link(ctx context.Context, repo Repository, selfID, partnerID int64) error {
	if err := repo.SetPartner(ctx, partnerID, selfID); err != nil {
		return pairingError(err)
	}
	if err := repo.SetPartner(ctx, selfID, partnerID); err != nil {
		return pairingError(err)
	}
	return nil
}

func pairingError(err error) error {
	if errors.Is(err, ErrPartnerTaken) {
		return apperr.ConflictError(msgPartnerMarried)
	}
	return err
}

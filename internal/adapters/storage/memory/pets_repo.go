package memory

import (
	"context"

	"pet-household/internal/domain/pets"
)

type petsRepo struct {
	db   *db
	held bool
}

func (r petsRepo) GetByOwner(_ context.Context, ownerID, petID int64) (p pets.Pet, ok bool, err error) {
	r.db.view(r.held, func(st *state) {
		p, ok = st.pets[petID]
		ok = ok && p.OwnerID != nil && *p.OwnerID == ownerID
	})
	if !ok {
		return pets.Pet{}, false, nil
	}
	return p, true, nil
}

func (r petsRepo) List(_ context.Context, filter pets.OwnerFilter) (out []pets.Pet, err error) {
	ownerID, byOwner := filter.Owner()

	r.db.view(r.held, func(st *state) {
		out = make([]pets.Pet, 0)
		for _, p := range st.pets {
			switch {
			case byOwner && (p.OwnerID == nil || *p.OwnerID != ownerID):
				continue
			case filter.IsUnowned() && p.OwnerID != nil:
				continue
			}
			out = append(out, p)
		}
	})
	return newestFirst(out, func(p pets.Pet) int64 { return p.ID }), nil
}

func (r petsRepo) Insert(_ context.Context, p pets.Pet) (id int64, err error) {
	p.OwnerID = copyID(p.OwnerID)

	r.db.update(r.held, func(st *state) {
		if p.OwnerID != nil {
			if _, ok := st.persons[*p.OwnerID]; !ok {
				err = pets.ErrOwnerMissing
				return
			}
		}
		st.lastPet++
		p.ID = st.lastPet
		st.pets[p.ID] = p
		id = p.ID
	})
	return id, err
}

func (r petsRepo) ReassignOwner(_ context.Context, from int64, to *int64) (n int64, err error) {
	r.db.update(r.held, func(st *state) {
		for id, p := range st.pets {
			if p.OwnerID == nil || *p.OwnerID != from {
				continue
			}
			p.OwnerID = copyID(to)
			st.pets[id] = p
			n++
		}
	})
	return n, nil
}

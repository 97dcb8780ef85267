package memory

import (
	"context"
	"fmt"

	"pet-household/internal/domain/persons"
)

type personsRepo struct {
	db   *db
	held bool
}

func (r personsRepo) GetByID(_ context.Context, id int64) (p persons.Person, ok bool, err error) {
	r.db.view(r.held, func(st *state) {
		p, ok = st.persons[id]
	})
	return p, ok, nil
}

func (r personsRepo) List(context.Context) (out []persons.Person, err error) {
	r.db.view(r.held, func(st *state) {
		out = make([]persons.Person, 0, len(st.persons))
		for _, p := range st.persons {
			out = append(out, p)
		}
	})
	return newestFirst(out, func(p persons.Person) int64 { return p.ID }), nil
}

func (r personsRepo) Insert(_ context.Context, p persons.Person) (id int64, err error) {
	p.PartnerID = copyID(p.PartnerID)

	r.db.update(r.held, func(st *state) {
		if p.PartnerID != nil {
			if _, ok := st.persons[*p.PartnerID]; !ok {
				err = ErrUnknownPerson
				return
			}
			if claimedBy(st, *p.PartnerID, 0) {
				err = persons.ErrPartnerTaken
				return
			}
		}
		st.lastPerson++
		p.ID = st.lastPerson
		st.persons[p.ID] = p
		id = p.ID
	})
	return id, err
}

func (r personsRepo) UpdateNames(_ context.Context, p persons.Person) (err error) {
	r.db.update(r.held, func(st *state) {
		cur, ok := st.persons[p.ID]
		if !ok {
			err = fmt.Errorf("update person %d: %w", p.ID, ErrNotFound)
			return
		}
		cur.FirstName, cur.LastName = p.FirstName, p.LastName
		st.persons[p.ID] = cur
	})
	return err
}

func (r personsRepo) SetPartner(_ context.Context, id, partnerID int64) (err error) {
	r.db.update(r.held, func(st *state) {
		if id == partnerID {
			err = ErrSelfPartner
			return
		}
		cur, ok := st.persons[id]
		if !ok || (cur.PartnerID != nil && *cur.PartnerID != partnerID) {
			err = persons.ErrPartnerTaken
			return
		}
		if _, ok := st.persons[partnerID]; !ok {
			err = ErrUnknownPerson
			return
		}
		if claimedBy(st, partnerID, id) {
			err = persons.ErrPartnerTaken
			return
		}
		cur.PartnerID = &partnerID
		st.persons[id] = cur
	})
	return err
}

func (r personsRepo) ClearPartner(_ context.Context, id, formerPartnerID int64) error {
	r.db.update(r.held, func(st *state) {
		cur, ok := st.persons[id]
		if !ok || cur.PartnerID == nil || *cur.PartnerID != formerPartnerID {
			return
		}
		cur.PartnerID = nil
		st.persons[id] = cur
	})
	return nil
}

// Delete also nulls every reference to id, like ON DELETE SET NULL.
func (r personsRepo) Delete(_ context.Context, id int64) (n int64, err error) {
	r.db.update(r.held, func(st *state) {
		if _, ok := st.persons[id]; !ok {
			return
		}
		delete(st.persons, id)
		n = 1

		for pid, p := range st.persons {
			if p.PartnerID != nil && *p.PartnerID == id {
				p.PartnerID = nil
				st.persons[pid] = p
			}
		}
		for pid, p := range st.pets {
			if p.OwnerID != nil && *p.OwnerID == id {
				p.OwnerID = nil
				st.pets[pid] = p
			}
		}
	})
	return n, nil
}

// claimedBy reports whether someone other than except already points at
// partnerID.
func claimedBy(st *state, partnerID, except int64) bool {
	for id, p := range st.persons {
		if id != except && p.PartnerID != nil && *p.PartnerID == partnerID {
			return true
		}
	}
	return false
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

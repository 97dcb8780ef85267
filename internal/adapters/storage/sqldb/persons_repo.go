package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"pet-household/internal/domain/persons"

	"github.com/jmoiron/sqlx"
)

var personsTable = NewTable[persons.Person]("persons", "id", "first_name", "last_name", "partner_id")

type personsRepo struct {
	ext sqlx.ExtContext
}

func (r personsRepo) GetByID(ctx context.Context, id int64) (persons.Person, bool, error) {
	return personsTable.Get(ctx, r.ext, id)
}

func (r personsRepo) List(ctx context.Context) ([]persons.Person, error) {
	return personsTable.List(ctx, r.ext, Filter{}, "id DESC")
}

func (r personsRepo) Insert(ctx context.Context, p persons.Person) (int64, error) {
	id, err := personsTable.Insert(ctx, r.ext, Fields{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"partner_id": nullableID(p.PartnerID),
	})
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("insert person: %w", persons.ErrPartnerTaken)
	}
	return id, err
}

func (r personsRepo) UpdateNames(ctx context.Context, p persons.Person) error {
	n, err := personsTable.Update(ctx, r.ext, p.ID, Fields{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update person %d: %w", p.ID, sql.ErrNoRows)
	}
	return nil
}

func (r personsRepo) SetPartner(ctx context.Context, id, partnerID int64) error {
	n, err := personsTable.UpdateWhere(ctx, r.ext,
		Fields{"partner_id": partnerID},
		Filter{
			Where: "id = ? AND (partner_id IS NULL OR partner_id = ?)",
			Args:  []any{id, partnerID},
		},
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("pair %d with %d: %w", id, partnerID, persons.ErrPartnerTaken)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pair %d with %d: %w", id, partnerID, persons.ErrPartnerTaken)
	}
	return nil
}

func (r personsRepo) ClearPartner(ctx context.Context, id, formerPartnerID int64) error {
	_, err := personsTable.UpdateWhere(ctx, r.ext,
		Fields{"partner_id": nil},
		Filter{Where: "id = ? AND partner_id = ?", Args: []any{id, formerPartnerID}},
	)
	return err
}

func (r personsRepo) Delete(ctx context.Context, id int64) (int64, error) {
	return personsTable.Delete(ctx, r.ext, id)
}

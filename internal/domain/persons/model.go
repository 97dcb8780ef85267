package persons

// Person is an individual that may be paired with exactly one other person.
// PartnerID is a weak reference: a person does not own its partner.
type Person struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	PartnerID *int64 `db:"partner_id"`
}

func (p Person) Paired() bool { return p.PartnerID != nil }

// View is a person with its partner resolved, as returned to callers.
type View struct {
	Person
	Partner *Person
}

package persons_test

import (
	"context"
	"sync"
	"testing"

	"pet-household/internal/adapters/storage/sqldb"
	"pet-household/internal/adapters/storage/sqldb/sqldbtest"
	"pet-household/internal/domain/persons"
	"pet-household/internal/domain/pets"
	"pet-household/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) ObserveOperation(op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	result := "ok"
	if err != nil {
		result = apperr.KindOf(err).String()
	}
	o.ops = append(o.ops, op+":"+result)
}

func newService(t *testing.T) (*persons.Service, *sqldb.Store) {
	t.Helper()
	store := sqldbtest.NewStore(t)
	return persons.NewService(store), store
}

func ptr[T any](v T) *T { return &v }

func create(t *testing.T, svc *persons.Service, first, last string, partner *int64) persons.View {
	t.Helper()
	v, err := svc.Create(context.Background(), persons.CreateInput{FirstName: first, LastName: last, PartnerID: partner})
	require.NoError(t, err)
	return v
}

func addPet(t *testing.T, store *sqldb.Store, name string, owner int64) int64 {
	t.Helper()
	id, err := store.Pets().Insert(context.Background(), pets.Pet{Name: name, OwnerID: &owner})
	require.NoError(t, err)
	return id
}

func countPersons(t *testing.T, svc *persons.Service) int {
	t.Helper()
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	return len(list)
}

// assertPaired checks both directions of a pairing.
func assertPaired(t *testing.T, svc *persons.Service, a, b int64) {
	t.Helper()
	ctx := context.Background()

	va, err := svc.Get(ctx, a)
	require.NoError(t, err)
	vb, err := svc.Get(ctx, b)
	require.NoError(t, err)

	require.NotNil(t, va.PartnerID)
	require.NotNil(t, vb.PartnerID)
	assert.Equal(t, b, *va.PartnerID)
	assert.Equal(t, a, *vb.PartnerID)
	require.NotNil(t, va.Partner)
	assert.Equal(t, b, va.Partner.ID)
}

func assertUnpaired(t *testing.T, svc *persons.Service, id int64) {
	t.Helper()
	v, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, v.PartnerID)
	assert.Nil(t, v.Partner)
}

func TestCreate_TrimsAndValidatesNames(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	v := create(t, svc, "  Ada ", " Lovelace", nil)
	assert.Equal(t, "Ada", v.FirstName)
	assert.Equal(t, "Lovelace", v.LastName)
	assert.Positive(t, v.ID)
	assert.Nil(t, v.Partner)

	_, err := svc.Create(ctx, persons.CreateInput{FirstName: " ", LastName: "X"})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
	assert.Equal(t, "First name is required", apperr.MessageOf(err))

	_, err = svc.Create(ctx, persons.CreateInput{FirstName: "X"})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
	assert.Equal(t, "Last name is required", apperr.MessageOf(err))

	assert.Equal(t, 1, countPersons(t, svc))
}

func TestCreate_WithPartnerPairsBothSides(t *testing.T) {
	svc, _ := newService(t)

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)

	require.NotNil(t, b.Partner)
	assert.Equal(t, a.ID, b.Partner.ID)
	require.NotNil(t, b.Partner.PartnerID)
	assert.Equal(t, b.ID, *b.Partner.PartnerID)

	assertPaired(t, svc, a.ID, b.ID)
}

func TestCreate_WithMarriedPartnerCreatesNothing(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)

	_, err := svc.Create(ctx, persons.CreateInput{FirstName: "C", LastName: "Three", PartnerID: &a.ID})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "Partner already married", apperr.MessageOf(err))

	assert.Equal(t, 2, countPersons(t, svc))
	assertPaired(t, svc, a.ID, b.ID)
}

func TestCreate_WithUnknownPartner(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), persons.CreateInput{FirstName: "A", LastName: "B", PartnerID: ptr(int64(77))})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "Partner not found", apperr.MessageOf(err))
	assert.Equal(t, 0, countPersons(t, svc))
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Get(context.Background(), 1)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "Person not found", apperr.MessageOf(err))
}

func TestList_ResolvesPartnersNewestFirst(t *testing.T) {
	svc, _ := newService(t)

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)
	c := create(t, svc, "C", "Three", nil)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
	assert.Nil(t, list[0].Partner)
	require.NotNil(t, list[1].Partner)
	assert.Equal(t, a.ID, list[1].Partner.ID)
	require.NotNil(t, list[2].Partner)
	assert.Equal(t, b.ID, list[2].Partner.ID)
}

func TestUpdate_NamesOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)

	v, err := svc.Update(ctx, a.ID, persons.UpdateInput{LastName: ptr(" Uno ")})
	require.NoError(t, err)
	assert.Equal(t, "A", v.FirstName)
	assert.Equal(t, "Uno", v.LastName)

	_, err = svc.Update(ctx, a.ID, persons.UpdateInput{FirstName: ptr("")})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.FirstName)
}

func TestUpdate_FormsPairing(t *testing.T) {
	svc, _ := newService(t)

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", nil)

	v, err := svc.Update(context.Background(), a.ID, persons.UpdateInput{FirstName: ptr("Anna"), PartnerID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, "Anna", v.FirstName)
	require.NotNil(t, v.Partner)
	assert.Equal(t, b.ID, v.Partner.ID)

	assertPaired(t, svc, a.ID, b.ID)
}

func TestUpdate_ConfirmingCurrentPartner(t *testing.T) {
	svc, _ := newService(t)

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)

	v, err := svc.Update(context.Background(), b.ID, persons.UpdateInput{PartnerID: &a.ID, LastName: ptr("Deux")})
	require.NoError(t, err)
	assert.Equal(t, "Deux", v.LastName)
	require.NotNil(t, v.Partner)
	assert.Equal(t, a.ID, v.Partner.ID)

	assertPaired(t, svc, a.ID, b.ID)
}

func TestUpdate_SwitchingPartnerIsRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)
	c := create(t, svc, "C", "Three", nil)

	_, err := svc.Update(ctx, b.ID, persons.UpdateInput{FirstName: ptr("Changed"), PartnerID: &c.ID})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
	assert.Equal(t, "Partner does not match partner_id", apperr.MessageOf(err))

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.FirstName, "no partial update")
	assertPaired(t, svc, a.ID, b.ID)
	assertUnpaired(t, svc, c.ID)
}

func TestUpdate_WithMarriedPartnerIsConflict(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)
	c := create(t, svc, "C", "Three", nil)

	_, err := svc.Update(ctx, c.ID, persons.UpdateInput{FirstName: ptr("Changed"), PartnerID: &a.ID})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", got.FirstName)
	assertUnpaired(t, svc, c.ID)
	assertPaired(t, svc, a.ID, b.ID)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)

	_, err := svc.Update(ctx, a.ID, persons.UpdateInput{PartnerID: &a.ID})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
	assertUnpaired(t, svc, a.ID)

	_, err = svc.Update(ctx, a.ID, persons.UpdateInput{PartnerID: ptr(int64(500))})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "Partner not found", apperr.MessageOf(err))

	_, err = svc.Update(ctx, 500, persons.UpdateInput{FirstName: ptr("X")})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "Person not found", apperr.MessageOf(err))
}

func TestRemove_CascadesToPartnerAndPets(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)
	addPet(t, store, "Rex", a.ID)
	addPet(t, store, "Tom", a.ID)
	addPet(t, store, "Own", b.ID)

	n, err := svc.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Get(ctx, a.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assertUnpaired(t, svc, b.ID)

	owned, err := store.Pets().List(ctx, pets.OwnedBy(b.ID))
	require.NoError(t, err)
	assert.Len(t, owned, 3)

	orphans, err := store.Pets().List(ctx, pets.Unowned())
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestRemove_WithoutPartnerLeavesPetsUnowned(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)
	rex := addPet(t, store, "Rex", a.ID)

	n, err := svc.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	orphans, err := store.Pets().List(ctx, pets.Unowned())
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, rex, orphans[0].ID)
}

func TestRemove_IsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := create(t, svc, "A", "One", nil)

	n, err := svc.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = svc.Remove(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRemove_PartnerCanPairAgain(t *testing.T) {
	svc, _ := newService(t)

	a := create(t, svc, "A", "One", nil)
	b := create(t, svc, "B", "Two", &a.ID)

	_, err := svc.Remove(context.Background(), a.ID)
	require.NoError(t, err)

	c := create(t, svc, "C", "Three", &b.ID)
	assertPaired(t, svc, b.ID, c.ID)
}

func TestConcurrentPairing_OnlyOneWins(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	target := create(t, svc, "Target", "T", nil)
	suitors := make([]persons.View, 4)
	for i := range suitors {
		suitors[i] = create(t, svc, "Suitor", "S", nil)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      []int64
		conflicts int
	)
	for _, s := range suitors {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := svc.Update(ctx, id, persons.UpdateInput{PartnerID: &target.ID})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins = append(wins, id)
			case apperr.KindOf(err) == apperr.Conflict:
				conflicts++
			}
		}(s.ID)
	}
	wg.Wait()

	require.Len(t, wins, 1)
	assert.Equal(t, len(suitors)-1, conflicts)
	assertPaired(t, svc, target.ID, wins[0])

	for _, s := range suitors {
		if s.ID != wins[0] {
			assertUnpaired(t, svc, s.ID)
		}
	}
}

func TestObserver_SeesEveryWrite(t *testing.T) {
	store := sqldbtest.NewStore(t)
	obs := &recordingObserver{}
	svc := persons.NewService(store).WithObserver(obs)
	ctx := context.Background()

	a, err := svc.Create(ctx, persons.CreateInput{FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	_, _ = svc.Update(ctx, a.ID, persons.UpdateInput{PartnerID: &a.ID})
	_, _ = svc.Remove(ctx, a.ID)

	assert.Equal(t, []string{"create:ok", "update:invalid_request", "remove:ok"}, obs.ops)
}

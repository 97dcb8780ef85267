package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-household/internal/adapters/storage/memory"
	"pet-household/internal/adapters/storage/sqldb/sqldbtest"
	"pet-household/internal/platform/metrics"
	"pet-household/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PartnerID *int64 `json:"partner_id"`
}

type person struct {
	ID        int64    `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Partner   *summary `json:"partner"`
}

type pet struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Owner *summary `json:"owner"`
}

type message struct {
	Message string `json:"Message"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Store:          sqldbtest.NewStore(t),
		Metrics:        metrics.New(),
		AllowedOrigins: []string{"http://localhost:3000"},
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_PairingAndCascade(t *testing.T) {
	ts := newServer(t)

	// 1) Two persons, the second married to the first
	ada := createPerson(t, ts.URL, map[string]any{"first_name": "Ada", "last_name": "Lovelace"})
	require.Nil(t, ada.Partner)

	charles := createPerson(t, ts.URL, map[string]any{"first_name": "Charles", "last_name": "Babbage", "partner_id": ada.ID})
	require.NotNil(t, charles.Partner)
	assert.Equal(t, ada.ID, charles.Partner.ID)
	require.NotNil(t, charles.Partner.PartnerID)
	assert.Equal(t, charles.ID, *charles.Partner.PartnerID)

	// 2) The pairing is visible from both sides
	{
		var got person
		st := doJSON(t, ts.URL, "GET", fmt.Sprintf("/persons/%d", ada.ID), nil, &got)
		require.Equal(t, http.StatusOK, st)
		require.NotNil(t, got.Partner)
		assert.Equal(t, charles.ID, got.Partner.ID)
	}

	// 3) A third person cannot marry Ada
	{
		var msg message
		st := doJSON(t, ts.URL, "POST", "/persons", map[string]any{
			"first_name": "Other", "last_name": "Suitor", "partner_id": ada.ID,
		}, &msg)
		assert.Equal(t, http.StatusConflict, st)
		assert.Equal(t, "Partner already married", msg.Message)
	}

	// 4) Charles cannot switch partner
	grace := createPerson(t, ts.URL, map[string]any{"first_name": "Grace", "last_name": "Hopper"})
	{
		var msg message
		st := doJSON(t, ts.URL, "PATCH", fmt.Sprintf("/persons/%d", charles.ID), map[string]any{"partner_id": grace.ID}, &msg)
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "Partner does not match partner_id", msg.Message)
	}

	// 5) Ada owns two pets
	rex := createPet(t, ts.URL, ada.ID, "Rex")
	require.NotNil(t, rex.Owner)
	assert.Equal(t, ada.ID, rex.Owner.ID)
	createPet(t, ts.URL, ada.ID, "Tom")

	{
		var got pet
		st := doJSON(t, ts.URL, "GET", fmt.Sprintf("/persons/%d/pets/%d", ada.ID, rex.ID), nil, &got)
		require.Equal(t, http.StatusOK, st)
		assert.Equal(t, "Rex", got.Name)
	}
	{
		var msg message
		st := doJSON(t, ts.URL, "GET", fmt.Sprintf("/persons/%d/pets/%d", charles.ID, rex.ID), nil, &msg)
		assert.Equal(t, http.StatusNotFound, st)
		assert.Equal(t, "Person and/or pet not found", msg.Message)
	}

	// 6) Removing Ada hands the pets to Charles and leaves him unmarried
	{
		var msg message
		st := doJSON(t, ts.URL, "DELETE", fmt.Sprintf("/persons/%d", ada.ID), nil, &msg)
		require.Equal(t, http.StatusOK, st)
		assert.Equal(t, "Number of rows removed: 1", msg.Message)
	}
	{
		var got person
		st := doJSON(t, ts.URL, "GET", fmt.Sprintf("/persons/%d", charles.ID), nil, &got)
		require.Equal(t, http.StatusOK, st)
		assert.Nil(t, got.Partner)
	}
	{
		var list struct {
			Data []pet `json:"data"`
		}
		st := doJSON(t, ts.URL, "GET", fmt.Sprintf("/persons/%d/pets", charles.ID), nil, &list)
		require.Equal(t, http.StatusOK, st)
		require.Len(t, list.Data, 2)
		for _, p := range list.Data {
			require.NotNil(t, p.Owner)
			assert.Equal(t, charles.ID, p.Owner.ID)
		}
	}

	// 7) Removing again is a no-op
	{
		var msg message
		st := doJSON(t, ts.URL, "DELETE", fmt.Sprintf("/persons/%d", ada.ID), nil, &msg)
		require.Equal(t, http.StatusOK, st)
		assert.Equal(t, "Number of rows removed: 0", msg.Message)
	}

	// 8) Charles is free to marry Grace now
	{
		var got person
		st := doJSON(t, ts.URL, "PATCH", fmt.Sprintf("/persons/%d", charles.ID), map[string]any{"partner_id": grace.ID}, &got)
		require.Equal(t, http.StatusOK, st)
		require.NotNil(t, got.Partner)
		assert.Equal(t, grace.ID, got.Partner.ID)
	}
}

func TestHTTP_ListPersons_NewestFirst(t *testing.T) {
	ts := newServer(t)

	first := createPerson(t, ts.URL, map[string]any{"first_name": "A", "last_name": "One"})
	second := createPerson(t, ts.URL, map[string]any{"first_name": "B", "last_name": "Two"})

	var list struct {
		Data []person `json:"data"`
	}
	st := doJSON(t, ts.URL, "GET", "/persons", nil, &list)
	require.Equal(t, http.StatusOK, st)
	require.Len(t, list.Data, 2)
	assert.Equal(t, second.ID, list.Data[0].ID)
	assert.Equal(t, first.ID, list.Data[1].ID)
}

func TestHTTP_UnownedPets(t *testing.T) {
	ts := newServer(t)

	var created pet
	st := doJSON(t, ts.URL, "POST", "/persons/pets", map[string]any{"name": "Stray"}, &created)
	require.Equal(t, http.StatusCreated, st)
	assert.Nil(t, created.Owner)

	var list struct {
		Data []pet `json:"data"`
	}
	st = doJSON(t, ts.URL, "GET", "/persons/pets", nil, &list)
	require.Equal(t, http.StatusOK, st)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Stray", list.Data[0].Name)
}

func TestHTTP_Errors(t *testing.T) {
	ts := newServer(t)
	ada := createPerson(t, ts.URL, map[string]any{"first_name": "Ada", "last_name": "Lovelace"})

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		msg    string
	}{
		{"unknown person", "GET", "/persons/999", nil, http.StatusNotFound, "Person not found"},
		{"non numeric id", "GET", "/persons/abc", nil, http.StatusNotFound, "Person not found"},
		{"missing first name", "POST", "/persons", map[string]any{"last_name": "X"}, http.StatusBadRequest, "First name is required"},
		{"unknown partner", "POST", "/persons", map[string]any{"first_name": "A", "last_name": "B", "partner_id": 999}, http.StatusNotFound, "Partner not found"},
		{"self pairing", "PATCH", fmt.Sprintf("/persons/%d", ada.ID), map[string]any{"partner_id": ada.ID}, http.StatusBadRequest, "A person cannot be paired with themselves"},
		{"pet for unknown owner", "POST", "/persons/999/pets", map[string]any{"name": "Rex"}, http.StatusNotFound, "Owner not found"},
		{"pet without name", "POST", fmt.Sprintf("/persons/%d/pets", ada.ID), map[string]any{"name": ""}, http.StatusBadRequest, "Name is required"},
		{"pets of unknown owner", "GET", "/persons/999/pets", nil, http.StatusNotFound, "Owner not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var msg message
			st := doJSON(t, ts.URL, tc.method, tc.path, tc.body, &msg)
			assert.Equal(t, tc.status, st)
			assert.Equal(t, tc.msg, msg.Message)
		})
	}
}

func TestHTTP_InvalidJSON(t *testing.T) {
	ts := newServer(t)

	res, err := http.Post(ts.URL+"/persons", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer res.Body.Close()

	var msg message
	require.NoError(t, json.NewDecoder(res.Body).Decode(&msg))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Invalid JSON body", msg.Message)
}

func TestHTTP_OperationalEndpoints(t *testing.T) {
	ts := newServer(t)
	createPerson(t, ts.URL, map[string]any{"first_name": "Ada", "last_name": "Lovelace"})

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, body = doReq(t, ts.URL, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), `pet_household_operations_total{op="create",result="ok"} 1`)

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), `"title": "Pet API"`)

	st, body = doReq(t, ts.URL, "GET", "/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "title: Pet API")
}

func TestHTTP_CORSPreflight(t *testing.T) {
	ts := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/persons", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestHTTP_MemoryBackend(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Store: memory.NewStore()}))
	defer ts.Close()

	ada := createPerson(t, ts.URL, map[string]any{"first_name": "Ada", "last_name": "Lovelace"})
	bob := createPerson(t, ts.URL, map[string]any{"first_name": "Bob", "last_name": "Smith", "partner_id": ada.ID})
	require.NotNil(t, bob.Partner)

	var msg message
	st := doJSON(t, ts.URL, "POST", "/persons", map[string]any{"first_name": "C", "last_name": "D", "partner_id": ada.ID}, &msg)
	assert.Equal(t, http.StatusConflict, st)

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, _ = doReq(t, ts.URL, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, st, "metrics are off without a registry")
}

func createPerson(t *testing.T, baseURL string, payload map[string]any) person {
	t.Helper()

	var out person
	st := doJSON(t, baseURL, "POST", "/persons", payload, &out)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create person, got %d", st)
	}
	if out.ID == 0 {
		t.Fatalf("create person: missing id")
	}
	return out
}

func createPet(t *testing.T, baseURL string, ownerID int64, name string) pet {
	t.Helper()

	var out pet
	st := doJSON(t, baseURL, "POST", fmt.Sprintf("/persons/%d/pets", ownerID), map[string]any{"name": name}, &out)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d", st)
	}
	return out
}

func doJSON(t *testing.T, baseURL, method, path string, body, out any) int {
	t.Helper()

	st, raw := doReq(t, baseURL, method, path, body)
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode %s %s: %v body=%s", method, path, err, string(raw))
		}
	}
	return st
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

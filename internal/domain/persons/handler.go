package persons

import (
	"fmt"
	"net/http"

	"pet-household/internal/platform/apperr"
	"pet-household/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the person endpoints on a router rooted at /persons.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/", listPersonsHandler(svc))
	r.Post("/", createPersonHandler(svc))

	r.Get("/{personID}", getPersonHandler(svc))
	r.Patch("/{personID}", updatePersonHandler(svc))
	r.Delete("/{personID}", removePersonHandler(svc))
}

type createPersonRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PartnerID *int64 `json:"partner_id"`
}

type updatePersonRequest struct {
	// Pointers for a real PATCH: nil = leave unchanged.
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	PartnerID *int64  `json:"partner_id"`
}

// SummaryResponse is a person nested inside another record.
type SummaryResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PartnerID *int64 `json:"partner_id"`
}

type personResponse struct {
	ID        int64            `json:"id"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Partner   *SummaryResponse `json:"partner"`
}

type personListResponse struct {
	Data []personResponse `json:"data"`
}

// listPersonsHandler godoc
// @Summary List persons
// @Description Returns every person, newest first, each with its partner nested.
// @Tags persons
// @Produce json
// @Success 200 {object} personListResponse
// @Router /persons [get]
func listPersonsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]personResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toPersonResponse(v))
		}
		httpx.WriteJSON(w, http.StatusOK, personListResponse{Data: out})
	}
}

// getPersonHandler godoc
// @Summary Get a person
// @Tags persons
// @Produce json
// @Param personID path int true "Person ID"
// @Success 200 {object} personResponse
// @Failure 404 {object} httpx.MessageResponse "Person not found"
// @Router /persons/{personID} [get]
func getPersonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.IDParam(r, "personID")
		if !ok {
			httpx.WriteError(w, r, apperr.NotFoundError(msgPersonNotFound))
			return
		}

		v, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPersonResponse(v))
	}
}

// createPersonHandler godoc
// @Summary Create a person
// @Description Creates a person and, when partner_id is given, marries it to that person. The partner must exist and be unmarried; if the marriage cannot be formed no person is created.
// @Tags persons
// @Accept json
// @Produce json
// @Param payload body createPersonRequest true "Names and optional partner"
// @Success 201 {object} personResponse
// @Failure 400 {object} httpx.MessageResponse "missing name / invalid json"
// @Failure 404 {object} httpx.MessageResponse "Partner not found"
// @Failure 409 {object} httpx.MessageResponse "Partner already married"
// @Router /persons [post]
func createPersonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPersonRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		v, err := svc.Create(r.Context(), CreateInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			PartnerID: req.PartnerID,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPersonResponse(v))
	}
}

// updatePersonHandler godoc
// @Summary Update a person
// @Description Overwrites the supplied names. For an unmarried person, partner_id marries it to an unmarried partner; for a married person partner_id must match the current partner.
// @Tags persons
// @Accept json
// @Produce json
// @Param personID path int true "Person ID"
// @Param payload body updatePersonRequest true "Fields to change"
// @Success 200 {object} personResponse
// @Failure 400 {object} httpx.MessageResponse "Partner does not match partner_id / blank name"
// @Failure 404 {object} httpx.MessageResponse "Person not found / Partner not found"
// @Failure 409 {object} httpx.MessageResponse "Partner already married"
// @Router /persons/{personID} [patch]
func updatePersonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.IDParam(r, "personID")
		if !ok {
			httpx.WriteError(w, r, apperr.NotFoundError(msgPersonNotFound))
			return
		}

		var req updatePersonRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		v, err := svc.Update(r.Context(), id, UpdateInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			PartnerID: req.PartnerID,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPersonResponse(v))
	}
}

// removePersonHandler godoc
// @Summary Remove a person
// @Description Deletes a person. Its pets move to its partner, or to no owner if unmarried, and the partner becomes unmarried. Removing an unknown id succeeds with zero rows removed.
// @Tags persons
// @Produce json
// @Param personID path int true "Person ID"
// @Success 200 {object} httpx.MessageResponse "Number of rows removed: N"
// @Router /persons/{personID} [delete]
func removePersonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.IDParam(r, "personID")
		if !ok {
			httpx.WriteError(w, r, apperr.NotFoundError(msgPersonNotFound))
			return
		}

		n, err := svc.Remove(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteMessage(w, http.StatusOK, fmt.Sprintf("Number of rows removed: %d", n))
	}
}

func toPersonResponse(v View) personResponse {
	out := personResponse{
		ID:        v.ID,
		FirstName: v.FirstName,
		LastName:  v.LastName,
	}
	if v.Partner != nil {
		s := ToSummary(*v.Partner)
		out.Partner = &s
	}
	return out
}

// ToSummary renders p as a nested sub-record.
func ToSummary(p Person) SummaryResponse {
	return SummaryResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		PartnerID: p.PartnerID,
	}
}

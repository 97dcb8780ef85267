package pets

import (
	"net/http"

	"pet-household/internal/domain/persons"
	"pet-household/internal/platform/apperr"
	"pet-household/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the pet endpoints on a router rooted at /persons.
// The static /pets segment wins over /{personID} in chi's tree.
func RegisterRoutes(r chi.Router, svc *Service) {
	// Pets without an owner
	r.Get("/pets", listUnownedPetsHandler(svc))
	r.Post("/pets", createUnownedPetHandler(svc))

	// Pets scoped to an owner
	r.Route("/{personID}/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
	})
}

type createPetRequest struct {
	Name string `json:"name"`
}

type petResponse struct {
	ID    int64                    `json:"id"`
	Name  string                   `json:"name"`
	Owner *persons.SummaryResponse `json:"owner"`
}

type petListResponse struct {
	Data []petResponse `json:"data"`
}

// listUnownedPetsHandler godoc
// @Summary List pets without owner
// @Tags pets
// @Produce json
// @Success 200 {object} petListResponse
// @Router /persons/pets [get]
func listUnownedPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListUnowned(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetListResponse(items))
	}
}

// createUnownedPetHandler godoc
// @Summary Create a pet without owner
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Pet name"
// @Success 201 {object} petResponse
// @Failure 400 {object} httpx.MessageResponse "Name is required"
// @Router /persons/pets [post]
func createUnownedPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.CreateUnowned(r.Context(), CreateInput{Name: req.Name})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary List the pets of a person
// @Tags pets
// @Produce json
// @Param personID path int true "Owner ID"
// @Success 200 {object} petListResponse
// @Failure 404 {object} httpx.MessageResponse "Owner not found"
// @Router /persons/{personID}/pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := httpx.IDParam(r, "personID")
		if !ok {
			httpx.WriteError(w, r, apperr.NotFoundError(msgOwnerNotFound))
			return
		}

		items, err := svc.ListByOwner(r.Context(), ownerID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetListResponse(items))
	}
}

// createPetHandler godoc
// @Summary Create a pet for a person
// @Tags pets
// @Accept json
// @Produce json
// @Param personID path int true "Owner ID"
// @Param payload body createPetRequest true "Pet name"
// @Success 201 {object} petResponse
// @Failure 400 {object} httpx.MessageResponse "Name is required / invalid json"
// @Failure 404 {object} httpx.MessageResponse "Owner not found"
// @Router /persons/{personID}/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := httpx.IDParam(r, "personID")
		if !ok {
			httpx.WriteError(w, r, apperr.NotFoundError(msgOwnerNotFound))
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), ownerID, CreateInput{Name: req.Name})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// getPetHandler godoc
// @Summary Get a pet of a person
// @Tags pets
// @Produce json
// @Param personID path int true "Owner ID"
// @Param petID path int true "Pet ID"
// @Success 200 {object} petResponse
// @Failure 404 {object} httpx.MessageResponse "Person and/or pet not found"
// @Router /persons/{personID}/pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := httpx.IDParam(r, "personID")
		if !ok {
			httpx.WriteError(w, r, apperr.NotFoundError(msgPetNotFound))
			return
		}
		petID, ok := httpx.IDParam(r, "petID")
		if !ok {
			httpx.WriteError(w, r, apperr.NotFoundError(msgPetNotFound))
			return
		}

		p, err := svc.Get(r.Context(), ownerID, petID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func toPetResponse(v View) petResponse {
	out := petResponse{ID: v.ID, Name: v.Name}
	if v.Owner != nil {
		s := persons.ToSummary(*v.Owner)
		out.Owner = &s
	}
	return out
}

func toPetListResponse(items []View) petListResponse {
	out := make([]petResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toPetResponse(v))
	}
	return petListResponse{Data: out}
}

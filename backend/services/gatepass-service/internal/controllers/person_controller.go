package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	shared_dtos "github.com/noid254/Qaribu-sub000/backend/shared/go-dtos"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type PersonController struct {
	personService *services.PersonService
}

func NewPersonController(s *services.PersonService) *PersonController {
	return &PersonController{personService: s}
}

// POST /api/v1/persons
func (c *PersonController) CreatePersonHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	var req dtos.CreatePersonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.personService.CreatePerson(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "Could not create person")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, shared_dtos.NewPersonFromModel(p))
}

// GET /api/v1/persons
func (c *PersonController) ListPersonsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	ps, err := c.personService.ListPersons(r.Context())
	if err != nil {
		respondServiceError(w, err, "Could not list persons")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.NewPersonsFromModels(ps))
}

// GET /api/v1/persons/{personId}
func (c *PersonController) GetPersonHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	p, err := c.personService.GetPerson(r.Context(), mux.Vars(r)["personId"])
	if err != nil {
		respondServiceError(w, err, "Could not load person")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.NewPersonFromModel(p))
}

// PATCH /api/v1/persons/me
func (c *PersonController) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdatePersonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.personService.UpdatePerson(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, "Could not update profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.NewPersonFromModel(p))
}

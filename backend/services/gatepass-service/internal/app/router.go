package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/controllers"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/routes"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-middleware"
)

// NewRouter mounts every gatepass-service route.
func NewRouter(a *App, s *Services) *mux.Router {
	healthController := controllers.NewHealthController(a)
	personController := controllers.NewPersonController(s.Persons)
	premiseController := controllers.NewPremiseController(s.Premises, s.MasterKeys)
	roleController := controllers.NewRoleController(s.Roles, s.MasterKeys)
	passController := controllers.NewPassController(s.Passes)
	accessController := controllers.NewAccessController(s.Verifier, s.Scans)
	shiftController := controllers.NewShiftController(s.Shifts)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Premise browsing works signed out; ?managed=true uses the token when present.
	browse := router.NewRoute().Subrouter()
	browse.Use(middleware.OptionalAuthMiddleware(a.Config.RSAPublicKey))
	browse.HandleFunc(routes.Premises, premiseController.ListPremisesHandler).Methods(http.MethodGet)
	browse.HandleFunc(routes.PremiseByID, premiseController.GetPremiseHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(a.Config.RSAPublicKey))

	// /persons/me must be matched before /persons/{personId}
	secured.HandleFunc(routes.PersonsMe, personController.UpdateMeHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.Persons, personController.CreatePersonHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Persons, personController.ListPersonsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PersonByID, personController.GetPersonHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.Premises, premiseController.RegisterPremiseHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PremiseUnits, premiseController.AddUnitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PremiseUnitByID, premiseController.UpdateUnitHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.PremiseUnitOccupy, premiseController.OccupyUnitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PremiseUnitVacate, premiseController.VacateUnitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PremiseMasterKeys, premiseController.IssueMasterKeyHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.PremiseActivity, shiftController.LogActivityHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PremiseActivity, shiftController.RecentActivityHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PremiseShiftReports, shiftController.SubmitShiftReportHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.RolesAssign, roleController.AssignRoleHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.RolesRevoke, roleController.RevokeRoleHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.Passes, passController.CreatePassHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Passes, passController.ListPassesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PassByID, passController.GetPassHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PassStatus, passController.UpdatePassStatusHandler).Methods(http.MethodPatch, http.MethodPut)

	secured.HandleFunc(routes.AccessVerify, accessController.VerifyHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Scan, accessController.ScanHandler).Methods(http.MethodPost)

	return router
}

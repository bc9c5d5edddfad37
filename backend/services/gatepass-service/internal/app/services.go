package app

import (
	twilio "github.com/twilio/twilio-go"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
)

// Services is the full set of gate-pass services, wired over one App.
type Services struct {
	Persons    *services.PersonService
	Premises   *services.PremiseService
	Roles      *services.RoleService
	Passes     *services.PassService
	PassExpiry *services.PassExpiryService
	MasterKeys *services.MasterKeyService
	Shifts     *services.ShiftService
	Verifier   *services.AccessVerificationService
	Scans      *services.ScanService
}

// NewServices wires every service. tw may be nil; geocoder may be nil.
func NewServices(a *App, notifier services.Notifier, tw *twilio.RestClient, geocoder internal_utils.Geocoder) *Services {
	cfg, r := a.Config, a.Repos

	roles := services.NewRoleService(r.Persons, r.Premises)
	passes := services.NewPassService(cfg, r.Passes, r.Premises, r.Persons, notifier)
	shifts := services.NewShiftService(r.Premises, r.Persons, r.ShiftReports, r.Activity, notifier)
	masterKeys := services.NewMasterKeyService(cfg, r.Premises, r.MasterKeyTokens, roles)
	verifier := services.NewAccessVerificationService(cfg, r.Persons, r.Premises, r.Passes, passes, shifts)

	return &Services{
		Persons:    services.NewPersonService(cfg, r.Persons, tw),
		Premises:   services.NewPremiseService(r.Premises, r.Persons, geocoder),
		Roles:      roles,
		Passes:     passes,
		PassExpiry: services.NewPassExpiryService(r.Passes),
		MasterKeys: masterKeys,
		Shifts:     shifts,
		Verifier:   verifier,
		Scans:      services.NewScanService(cfg, r.Persons, r.Premises, r.Passes, masterKeys, verifier),
	}
}

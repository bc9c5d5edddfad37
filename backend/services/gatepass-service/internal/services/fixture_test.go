package services

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-seeding"
	"github.com/stretchr/testify/require"
)

// A Tuesday morning in Nairobi, well clear of any public holiday.
var fixedNow = time.Date(2025, 3, 4, 6, 30, 0, 0, time.UTC)

type sentSMS struct {
	To   string
	Body string
}

type sentEmail struct {
	ToName  string
	ToEmail string
	Subject string
	Plain   string
	HTML    string
}

// fakeNotifier records deliveries. Sends happen on background goroutines,
// so tests read them back through the channels.
type fakeNotifier struct {
	mu     sync.Mutex
	sms    chan sentSMS
	emails chan sentEmail
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		sms:    make(chan sentSMS, 16),
		emails: make(chan sentEmail, 16),
	}
}

func (f *fakeNotifier) SendSMS(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sms <- sentSMS{To: to, Body: body}
	return nil
}

func (f *fakeNotifier) SendEmail(_ context.Context, toName, toEmail, subject, plainText, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails <- sentEmail{ToName: toName, ToEmail: toEmail, Subject: subject, Plain: plainText, HTML: html}
	return nil
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
	var zero T
	return zero
}

func assertNothingSent[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected notification: %+v", v)
	case <-time.After(100 * time.Millisecond):
	}
}

type fixture struct {
	ctx context.Context
	cfg *config.Config

	persons  repositories.PersonRepository
	premises repositories.PremiseRepository
	passes   repositories.AccessRequestRepository
	reports  repositories.ShiftReportRepository
	activity repositories.ActivityFeedRepository
	tokens   repositories.MasterKeyTokenRepository
	notifier *fakeNotifier

	personSvc    *PersonService
	premiseSvc   *PremiseService
	roleSvc      *RoleService
	passSvc      *PassService
	expirySvc    *PassExpiryService
	masterKeySvc *MasterKeyService
	shiftSvc     *ShiftService
	verifier     *AccessVerificationService
	scanSvc      *ScanService
}

// newFixture wires every service over seeded in-memory repositories with
// the clock pinned to fixedNow.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx: context.Background(),
		cfg: &config.Config{
			OrganizationName:           "Qaribu",
			LDFlag_AllowBareDigitCodes: true,
		},
		persons:  repositories.NewMemoryPersonRepository(),
		premises: repositories.NewMemoryPremiseRepository(),
		passes:   repositories.NewMemoryAccessRequestRepository(),
		reports:  repositories.NewMemoryShiftReportRepository(),
		activity: repositories.NewMemoryActivityFeedRepository(),
		tokens:   repositories.NewMemoryMasterKeyTokenRepository(),
		notifier: newFakeNotifier(),
	}
	require.NoError(t, seeding.SeedAll(f.ctx, f.persons, f.premises, f.passes, fixedNow))

	f.personSvc = NewPersonService(f.cfg, f.persons, nil)
	f.premiseSvc = NewPremiseService(f.premises, f.persons, nil)
	f.roleSvc = NewRoleService(f.persons, f.premises)
	f.passSvc = NewPassService(f.cfg, f.passes, f.premises, f.persons, f.notifier)
	f.expirySvc = NewPassExpiryService(f.passes)
	f.masterKeySvc = NewMasterKeyService(f.cfg, f.premises, f.tokens, f.roleSvc)
	f.shiftSvc = NewShiftService(f.premises, f.persons, f.reports, f.activity, f.notifier)
	f.verifier = NewAccessVerificationService(f.cfg, f.persons, f.premises, f.passes, f.passSvc, f.shiftSvc)
	f.scanSvc = NewScanService(f.cfg, f.persons, f.premises, f.passes, f.masterKeySvc, f.verifier)
	f.setClock(fixedNow)
	return f
}

func (f *fixture) setClock(now time.Time) {
	clock := func() time.Time { return now }
	f.personSvc.now = clock
	f.premiseSvc.now = clock
	f.roleSvc.now = clock
	f.passSvc.now = clock
	f.expirySvc.now = clock
	f.masterKeySvc.now = clock
	f.shiftSvc.now = clock
	f.verifier.now = clock
	f.scanSvc.now = clock
}

func (f *fixture) person(t *testing.T, id string) *models.Person {
	t.Helper()
	p, err := f.persons.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p, "person %s", id)
	return p
}

func (f *fixture) premise(t *testing.T, id string) *models.Premise {
	t.Helper()
	p, err := f.premises.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p, "premise %s", id)
	return p
}

func (f *fixture) pass(t *testing.T, id string) *models.AccessRequest {
	t.Helper()
	a, err := f.passes.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, a, "pass %s", id)
	return a
}

// snapshot loads what VerifyEntry reads.
func (f *fixture) snapshot(t *testing.T) ([]*models.Person, []*models.AccessRequest) {
	t.Helper()
	persons, err := f.persons.ListAll(f.ctx)
	require.NoError(t, err)
	passes, err := f.passes.ListAll(f.ctx)
	require.NoError(t, err)
	return persons, passes
}

func unitNumbers(units []models.Unit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.UnitNumber)
	}
	return out
}

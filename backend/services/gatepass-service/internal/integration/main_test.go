package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	_ "time/tzdata"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/app"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-testhelpers"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/require"
)

const appName = "gatepass-service"

func TestMain(m *testing.M) {
	utils.InitLogger(appName)
	os.Exit(m.Run())
}

// harness is one in-process gatepass-service over seeded in-memory stores.
// Each test gets its own so state never leaks between tests.
type harness struct {
	*testhelpers.TestHelper
	App      *app.App
	Services *app.Services
	Outbox   *outbox
}

type sms struct{ To, Body string }

// outbox records what the service would have sent.
type outbox struct {
	mu  sync.Mutex
	sms []sms
}

func (o *outbox) SendSMS(_ context.Context, to, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sms = append(o.sms, sms{To: to, Body: body})
	return nil
}

func (o *outbox) SendEmail(context.Context, string, string, string, string, string) error {
	return nil
}

// TextsTo returns the bodies of every SMS sent to phone so far.
func (o *outbox) TextsTo(phone string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, m := range o.sms {
		if m.To == phone {
			out = append(out, m.Body)
		}
	}
	return out
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	repos := app.NewMemoryRepositories()
	h := testhelpers.NewTestHelper(t, appName, testhelpers.Repos{
		Persons:  repos.Persons,
		Premises: repos.Premises,
		Passes:   repos.Passes,
	})

	cfg := &config.Config{
		AppName:                    appName,
		OrganizationName:           "Qaribu",
		LDFlag_AllowBareDigitCodes: true,
		RSAPublicKey:               h.PublicKey,
	}
	a := &app.App{Config: cfg, Repos: repos}
	require.NoError(t, a.SeedTestData(h.Ctx))

	box := &outbox{}
	s := app.NewServices(a, box, nil, nil)
	h.Serve(app.NewRouter(a, s))
	return &harness{TestHelper: h, App: a, Services: s, Outbox: box}
}

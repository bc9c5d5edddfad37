package testhelpers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/stretchr/testify/require"
)

// Repos are the stores a test reads and writes behind the service's back.
type Repos struct {
	Persons  repositories.PersonRepository
	Premises repositories.PremiseRepository
	Passes   repositories.AccessRequestRepository
}

// TestHelper runs a service handler in-process and signs tokens it accepts.
type TestHelper struct {
	T          *testing.T
	Ctx        context.Context
	BaseURL    string
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
	AppName    string

	Repos
}

// NewTestHelper generates a throwaway RS256 key pair. Hand PublicKey to the
// service config, then call Serve with the service's router.
func NewTestHelper(t *testing.T, appName string, repos Repos) *TestHelper {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "Failed to generate test RSA key")

	return &TestHelper{
		T:          t,
		Ctx:        context.Background(),
		PrivateKey: key,
		PublicKey:  &key.PublicKey,
		AppName:    appName,
		Repos:      repos,
	}
}

// Serve starts handler on a local listener; it is closed when the test ends.
func (h *TestHelper) Serve(handler http.Handler) {
	srv := httptest.NewServer(handler)
	h.T.Cleanup(srv.Close)
	h.BaseURL = srv.URL
}

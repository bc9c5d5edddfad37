package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/bitwarden/sdk-go"
)

// defaultBWSOrgID is the Bitwarden organization that owns the gate-pass
// projects. BWS_ORGANIZATION_ID overrides it for staging vaults.
const defaultBWSOrgID = "5c1d8a3e-7f0b-4e52-9a61-2b8f44d0c9e7"

const (
	bwsLoginAttempts = 5
	bwsFirstBackoff  = 500 * time.Millisecond
)

// BWSSecretsClient reads project secrets from Bitwarden Secrets Manager.
type BWSSecretsClient struct {
	bw    sdk.BitwardenClientInterface
	orgID string
}

// NewBWSSecretsClient logs in with BWS_ACCESS_TOKEN, backing off while the
// API answers 429.
func NewBWSSecretsClient() (*BWSSecretsClient, error) {
	token := strings.TrimSpace(os.Getenv("BWS_ACCESS_TOKEN"))
	if token == "" {
		return nil, errors.New("BWS_ACCESS_TOKEN env var is missing or empty")
	}

	bw, err := sdk.NewBitwardenClient(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("initialising Bitwarden SDK client: %w", err)
	}

	wait := bwsFirstBackoff
	for attempt := 1; ; attempt++ {
		err = bw.AccessTokenLogin(token, nil)
		if err == nil {
			break
		}
		if !isRateLimited(err) {
			bw.Close()
			return nil, fmt.Errorf("Bitwarden access-token login failed: %w", err)
		}
		if attempt == bwsLoginAttempts {
			bw.Close()
			return nil, fmt.Errorf("Bitwarden access-token login failed after %d attempts: %w", attempt, err)
		}
		Logger.WithField("attempt", attempt).Warn("Bitwarden login rate limited; backing off")
		time.Sleep(wait)
		wait *= 2
	}

	orgID := os.Getenv("BWS_ORGANIZATION_ID")
	if orgID == "" {
		orgID = defaultBWSOrgID
	}
	return &BWSSecretsClient{bw: bw, orgID: orgID}, nil
}

// sdk-go has no typed status error; 429s are recognised by message.
func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "Too Many Requests")
}

func (c *BWSSecretsClient) Close() {
	if c != nil && c.bw != nil {
		c.bw.Close()
	}
}

// GetBWSSecrets returns the key/value secrets of the named project.
func (c *BWSSecretsClient) GetBWSSecrets(projectName string) (map[string]string, error) {
	if strings.TrimSpace(projectName) == "" {
		return nil, errors.New("projectName must not be empty")
	}

	projects, err := c.bw.Projects().List(c.orgID)
	if err != nil {
		Logger.WithError(err).Error("Failed to list Bitwarden projects")
		return nil, fmt.Errorf("listing Bitwarden projects: %w", err)
	}
	projectID := ""
	for _, p := range projects.Data {
		if strings.EqualFold(p.Name, projectName) {
			projectID = p.ID
			break
		}
	}
	if projectID == "" {
		return nil, fmt.Errorf("project %q not found in organisation %s", projectName, c.orgID)
	}

	synced, err := c.bw.Secrets().Sync(c.orgID, nil)
	if err != nil {
		Logger.WithError(err).Error("Failed to sync Bitwarden secrets")
		return nil, fmt.Errorf("syncing Bitwarden secrets: %w", err)
	}
	out := projectSecrets(synced.Secrets, projectID)
	if len(out) == 0 {
		return nil, fmt.Errorf("no secrets found for project %q", projectName)
	}
	return out, nil
}

func projectSecrets(secrets []sdk.SecretResponse, projectID string) map[string]string {
	out := make(map[string]string)
	for _, s := range secrets {
		if s.ProjectID != nil && *s.ProjectID == projectID {
			out[s.Key] = s.Value
		}
	}
	return out
}

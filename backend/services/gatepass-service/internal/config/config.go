package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	UniqueRunNumber  string
	UniqueRunnerID   string

	// Storage. An empty DBUrl keeps everything in process memory; an empty
	// RedisAddr does the same for the master-key registry and activity feed.
	DBUrl         string
	RedisAddr     string
	RedisPassword string

	// External services
	TwilioAccountSID string
	TwilioAuthToken  string
	SendGridAPIKey   string
	GMapsAPIKey      string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// LaunchDarkly flags
	LDFlag_EnforcePassExpiry   bool
	LDFlag_AllowBareDigitCodes bool
	LDFlag_SingleUseMasterKeys bool
	LDFlag_SeedDbWithTestData  bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_UsingIsolatedSchema bool
	LDFlag_ValidatePhoneTwilio bool
	LDFlag_TwilioFromPhone     string
	LDFlag_SendgridFromEmail   string
	LDFlag_SendgridSandboxMode bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second

	defaultAppName      = "gatepass-service"
	defaultAppPort      = "8080"
	defaultAppURL       = "http://localhost:8080"
	defaultTwilioFrom   = "+10005550006"
	defaultSendgridFrom = "no-reply@qaribu.africa"
)

// build-time overrides
var (
	AppName             string
	UniqueRunNumber     string
	UniqueRunnerID      string
	LDServerContextKey  string
	LDServerContextKind string
)

func LoadConfig() *Config {
	//----------------------------------------------------------------------
	// 1) ldflags. CI builds always set them; local builds fall back.
	//----------------------------------------------------------------------
	if AppName == "" {
		utils.Logger.Warnf("AppName ldflag missing, using %q", defaultAppName)
		AppName = defaultAppName
	}
	if UniqueRunNumber == "" {
		UniqueRunNumber = "0"
	}
	if UniqueRunnerID == "" {
		UniqueRunnerID = "local"
	}
	if LDServerContextKey == "" || LDServerContextKind == "" {
		LDServerContextKey, LDServerContextKind = "gatepass-service", "service"
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	//----------------------------------------------------------------------
	// 2) Runtime environment vars
	//----------------------------------------------------------------------
	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Warn("ENV env var is missing, assuming dev")
		env = "dev"
	}
	appURL := envOr("APP_URL_FROM_ANYWHERE", defaultAppURL)
	appPort := envOr("APP_PORT", defaultAppPort)

	//----------------------------------------------------------------------
	// 3) Secrets: Bitwarden when BWS_ACCESS_TOKEN is set, else the environment
	//----------------------------------------------------------------------
	secrets := loadSecrets(env)

	pubB64 := secrets["RSA_PUBLIC_KEY_BASE64"]
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 not found")
	}
	pubKey, err := ParseRSAPublicKeyBase64(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          appPort,
		AppUrl:           appURL,
		UniqueRunNumber:  UniqueRunNumber,
		UniqueRunnerID:   UniqueRunnerID,
		DBUrl:            secrets["DB_URL"],
		RedisAddr:        secrets["REDIS_ADDR"],
		RedisPassword:    secrets["REDIS_PASSWORD"],
		TwilioAccountSID: secrets["TWILIO_ACCOUNT_SID"],
		TwilioAuthToken:  secrets["TWILIO_AUTH_TOKEN"],
		SendGridAPIKey:   secrets["SENDGRID_API_KEY"],
		GMapsAPIKey:      secrets["GMAPS_API_KEY"],
		RSAPublicKey:     pubKey,
	}

	//----------------------------------------------------------------------
	// 4) LaunchDarkly flags (defaults when no SDK key is configured)
	//----------------------------------------------------------------------
	flags := newFlagReader(secrets["LD_SDK_KEY"])
	defer flags.close()

	cfg.LDFlag_EnforcePassExpiry = flags.boolFlag("enforce_pass_expiry", false)
	cfg.LDFlag_AllowBareDigitCodes = flags.boolFlag("allow_bare_digit_codes", true)
	cfg.LDFlag_SingleUseMasterKeys = flags.boolFlag("single_use_master_keys", false)
	cfg.LDFlag_SeedDbWithTestData = flags.boolFlag("seed_db_with_test_data", false)
	cfg.LDFlag_CORSHighSecurity = flags.boolFlag("cors_high_security", false)
	cfg.LDFlag_UsingIsolatedSchema = flags.boolFlag("using_isolated_schema", false)
	cfg.LDFlag_ValidatePhoneTwilio = flags.boolFlag("validate_phone_with_twilio", false)
	cfg.LDFlag_SendgridSandboxMode = flags.boolFlag("sendgrid_sandbox_mode", false)

	cfg.LDFlag_TwilioFromPhone = flags.stringFlag("twilio_from_phone", "")
	if cfg.LDFlag_TwilioFromPhone == "" {
		utils.Logger.Warnf("twilio_from_phone flag is empty, defaulting to %s", defaultTwilioFrom)
		cfg.LDFlag_TwilioFromPhone = defaultTwilioFrom
	}
	cfg.LDFlag_SendgridFromEmail = flags.stringFlag("sendgrid_from_email", "")
	if cfg.LDFlag_SendgridFromEmail == "" {
		utils.Logger.Warnf("sendgrid_from_email flag is empty, defaulting to %s", defaultSendgridFrom)
		cfg.LDFlag_SendgridFromEmail = defaultSendgridFrom
	}

	return cfg
}

func (c *Config) Close() {}

// ParseRSAPublicKeyBase64 decodes a base64-wrapped PEM public key.
func ParseRSAPublicKeyBase64(b64 string) (*rsa.PublicKey, error) {
	pubPEM, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		return nil, fmt.Errorf("no PEM block in public key")
	}
	return jwt.ParseRSAPublicKeyFromPEM(pubPEM)
}

var secretKeys = []string{
	"DB_URL",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"RSA_PUBLIC_KEY_BASE64",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"SENDGRID_API_KEY",
	"GMAPS_API_KEY",
	"LD_SDK_KEY",
}

func loadSecrets(env string) map[string]string {
	out := make(map[string]string, len(secretKeys))
	if strings.TrimSpace(os.Getenv("BWS_ACCESS_TOKEN")) == "" {
		utils.Logger.Info("BWS_ACCESS_TOKEN not set; reading secrets from the environment")
		for _, k := range secretKeys {
			out[k] = os.Getenv(k)
		}
		return out
	}

	client, err := utils.NewBWSSecretsClient()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize BWSSecretsClient")
	}
	defer client.Close()

	sharedSecretsName := fmt.Sprintf("shared-%s", env)
	sharedSecrets, err := client.GetBWSSecrets(sharedSecretsName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch shared secrets from BWS")
	}
	appSecretsName := fmt.Sprintf("%s-%s", AppName, env)
	appSecrets, err := client.GetBWSSecrets(appSecretsName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch app secrets from BWS")
	}

	// App-specific values win over shared ones.
	for k, v := range sharedSecrets {
		out[k] = v
	}
	for k, v := range appSecrets {
		out[k] = v
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

/* ───────────── LaunchDarkly ───────────── */

type flagReader struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

func newFlagReader(sdkKey string) *flagReader {
	if sdkKey == "" {
		utils.Logger.Warn("LD_SDK_KEY not set; every flag uses its default")
		return &flagReader{}
	}
	client, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !client.Initialized() {
		client.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	return &flagReader{
		client: client,
		ctx:    ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey),
	}
}

func (f *flagReader) boolFlag(key string, def bool) bool {
	if f.client == nil {
		return def
	}
	v, err := f.client.BoolVariation(key, f.ctx, def)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
	}
	utils.Logger.Debugf("%s flag: %t", key, v)
	return v
}

func (f *flagReader) stringFlag(key string, def string) string {
	if f.client == nil {
		return def
	}
	v, err := f.client.StringVariation(key, f.ctx, def)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
	}
	utils.Logger.Debugf("%s flag: %s", key, v)
	return v
}

func (f *flagReader) close() {
	if f.client != nil {
		f.client.Close()
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/app"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/constants"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize gatepass-service:", err)
	}
	defer application.Close()

	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	} else {
		utils.Logger.Warn("Twilio credentials not set; SMS is disabled")
	}
	var sgClient *sendgrid.Client
	if cfg.SendGridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	} else {
		utils.Logger.Warn("SENDGRID_API_KEY not set; email is disabled")
	}
	geocoder, err := internal_utils.NewGeocoder(cfg.GMapsAPIKey)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create geocoder")
	}

	notifier := services.NewNotificationService(cfg, twClient, sgClient)
	svcs := app.NewServices(application, notifier, twClient, geocoder)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := application.SeedTestData(context.Background()); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		} else {
			utils.Logger.Info("Seeded test data successfully")
		}
	}

	c := cron.New()
	_, expiryErr := c.AddFunc(constants.PassExpirySchedule, func() {
		if _, e := svcs.PassExpiry.ExpireStalePasses(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled pass expiry sweep failed")
		}
	})
	if expiryErr != nil {
		utils.Logger.WithError(expiryErr).Fatal("Failed to schedule pass expiry cron")
	}
	c.Start()
	defer c.Stop()

	router := app.NewRouter(application, svcs)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := app.Serve(ctx, srv, 15*time.Second); err != nil {
		utils.Logger.WithError(err).Error("gatepass-service stopped with error")
		return
	}
	utils.Logger.Info("gatepass-service stopped")
}

package services

import (
	"context"
	"fmt"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers out-of-band messages. Implementations never retry.
type Notifier interface {
	SendSMS(ctx context.Context, to, body string) error
	SendEmail(ctx context.Context, toName, toEmail, subject, plainText, html string) error
}

type NotificationService struct {
	cfg      *config.Config
	twClient *twilio.RestClient
	sgClient *sendgrid.Client
}

// NewNotificationService wires whichever clients are non-nil; a missing
// client turns that channel into a logged no-op.
func NewNotificationService(cfg *config.Config, tw *twilio.RestClient, sg *sendgrid.Client) *NotificationService {
	return &NotificationService{cfg: cfg, twClient: tw, sgClient: sg}
}

func (s *NotificationService) SendSMS(ctx context.Context, to, body string) error {
	if s.twClient == nil {
		utils.Logger.Warnf("Twilio client is nil, skipping SMS to %s", to)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(body)
	if _, err := s.twClient.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sms to %s: %w: %v", to, utils.ErrExternalServiceFailure, err)
	}
	return nil
}

func (s *NotificationService) SendEmail(ctx context.Context, toName, toEmail, subject, plainText, html string) error {
	if s.sgClient == nil {
		utils.Logger.Warnf("SendGrid client is nil, skipping email to %s", toEmail)
		return nil
	}
	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(toName, toEmail)
	msg := mail.NewSingleEmail(from, subject, to, plainText, html)
	msg.TrackingSettings = &mail.TrackingSettings{
		ClickTracking: &mail.ClickTrackingSetting{
			Enable: utils.Ptr(false),
		},
	}
	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	resp, err := s.sgClient.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("email to %s: %w: %v", toEmail, utils.ErrExternalServiceFailure, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email to %s: status %d: %w", toEmail, resp.StatusCode, utils.ErrExternalServiceFailure)
	}
	return nil
}

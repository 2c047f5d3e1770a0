package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// HandoverNotifier tells a human that a conversation needs them
type HandoverNotifier interface {
	NotifyHandover(ctx context.Context, sessionKey string, phone *string) error
}

// messageCreator is the Twilio API call we use
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioService pings the on-duty pharmacist on WhatsApp
type TwilioService struct {
	api        messageCreator
	from       string // Twilio WhatsApp sender, "whatsapp:+14155238886"
	pharmacist string // on-duty pharmacist number, E.164
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(accountSid, authToken, from, pharmacist string) (*TwilioService, error) {
	if accountSid == "" || authToken == "" || from == "" || pharmacist == "" {
		return nil, fmt.Errorf("missing Twilio credentials or pharmacist number")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioService{
		api:        client.Api,
		from:       from,
		pharmacist: pharmacist,
	}, nil
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo("whatsapp:" + strings.TrimPrefix(to, "whatsapp:"))
	params.SetBody(message)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return err
	}

	if resp != nil && resp.Sid != nil {
		log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	}
	return nil
}

// NotifyHandover alerts the pharmacist about a session flagged for a human
func (t *TwilioService) NotifyHandover(ctx context.Context, sessionKey string, phone *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.SendWhatsAppMessage(t.pharmacist, PharmacistAlertText(sessionKey, phone))
}

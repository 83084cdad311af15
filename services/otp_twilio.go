package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/twilio/twilio-go"
	twilioClient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio error codes that indicate misconfiguration of the account or
// sender number rather than a bad request. Only these trigger fallback
// to the mock verifier.
var twilioConfigErrorCodes = map[int]bool{
	20003: true, // authentication failed
	20404: true, // resource not found (bad account sid)
	21212: true, // invalid From number
	21606: true, // From number not SMS capable
	21608: true, // unverified number on trial account
}

// TwilioOtpVerifier delivers codes over SMS through the Twilio
// Messages API and confirms them against the stored session.
type TwilioOtpVerifier struct {
	store  *otpSessionStore
	client *twilio.RestClient
	from   string
}

func NewTwilioOtpVerifier() *TwilioOtpVerifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioOtpVerifier{
		store: newOtpSessionStore(),
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (t *TwilioOtpVerifier) SendCode(phone string) (string, error) {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return "", err
	}

	// Rate-limit check happens before the provider call so a throttled
	// number never consumes SMS quota.
	if err := t.store.checkSendAllowed(formatted); err != nil {
		return "", err
	}

	if os.Getenv("TWILIO_ACCOUNT_SID") == "" || t.from == "" {
		return "", fmt.Errorf("%w: TWILIO_ACCOUNT_SID or TWILIO_PHONE_NUMBER missing", ErrProviderConfig)
	}

	code, err := generateOtpCode()
	if err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(formatted)
	params.SetFrom(t.from)
	params.SetBody("Your CleanCut verification code is " + code + ". It expires in 5 minutes.")

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send OTP to %s: %v", formatted, err)
		return "", classifyTwilioError(err)
	}
	if resp.Sid != nil {
		log.Printf("OTP sent to %s, SID: %s", formatted, *resp.Sid)
	}

	if err := t.store.begin(formatted, code); err != nil {
		return "", err
	}
	return formatted, nil
}

func (t *TwilioOtpVerifier) VerifyCode(phone, code string) (string, error) {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return "", err
	}
	if err := t.store.verify(formatted, code); err != nil {
		return "", err
	}
	return formatted, nil
}

func (t *TwilioOtpVerifier) ResendCode(phone string) error {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return err
	}
	if !t.store.has(formatted) {
		return ErrNoSession
	}
	_, err = t.SendCode(formatted)
	return err
}

func (t *TwilioOtpVerifier) ClearSession(phone string) {
	if formatted, err := canonicalPhone(phone); err == nil {
		t.store.clear(formatted)
	}
}

func (t *TwilioOtpVerifier) RemainingCooldown(phone string) time.Duration {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return 0
	}
	return t.store.remainingCooldown(formatted)
}

func (t *TwilioOtpVerifier) Mode() string { return "twilio" }

// classifyTwilioError wraps configuration-class provider failures in
// ErrProviderConfig; other errors pass through unchanged.
func classifyTwilioError(err error) error {
	var restErr *twilioClient.TwilioRestError
	if errors.As(err, &restErr) && twilioConfigErrorCodes[restErr.Code] {
		return fmt.Errorf("%w: %v", ErrProviderConfig, err)
	}
	return err
}

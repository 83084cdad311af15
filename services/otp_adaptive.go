package services

import (
	"errors"
	"log"
	"os"
	"sync"
	"time"
)

// AdaptiveOtpVerifier selects the Twilio or mock verifier from
// configuration (OTP_MODE=mock forces the mock) and falls back from
// Twilio to the mock permanently on provider configuration errors.
// Invalid-code and rate-limit errors never trigger fallback.
type AdaptiveOtpVerifier struct {
	mu      sync.Mutex
	real    OtpVerifier
	mock    OtpVerifier
	useMock bool
}

func NewAdaptiveOtpVerifier() *AdaptiveOtpVerifier {
	useMock := os.Getenv("OTP_MODE") == "mock"
	if !useMock && os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		log.Println("Twilio not configured, OTP verifier starting in mock mode")
		useMock = true
	}

	return &AdaptiveOtpVerifier{
		real:    NewTwilioOtpVerifier(),
		mock:    NewMockOtpVerifier(),
		useMock: useMock,
	}
}

func (a *AdaptiveOtpVerifier) active() OtpVerifier {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.useMock {
		return a.mock
	}
	return a.real
}

func (a *AdaptiveOtpVerifier) fallbackToMock() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.useMock {
		log.Println("Provider configuration error, falling back to mock OTP verifier")
		a.useMock = true
	}
}

func (a *AdaptiveOtpVerifier) SendCode(phone string) (string, error) {
	formatted, err := a.active().SendCode(phone)
	if err != nil && errors.Is(err, ErrProviderConfig) {
		a.fallbackToMock()
		return a.mock.SendCode(phone)
	}
	return formatted, err
}

func (a *AdaptiveOtpVerifier) VerifyCode(phone, code string) (string, error) {
	return a.active().VerifyCode(phone, code)
}

func (a *AdaptiveOtpVerifier) ResendCode(phone string) error {
	err := a.active().ResendCode(phone)
	if err != nil && errors.Is(err, ErrProviderConfig) {
		a.fallbackToMock()
		// the mock store has no session for this number yet, so a resend
		// after the switch starts a fresh one
		_, err = a.mock.SendCode(phone)
	}
	return err
}

func (a *AdaptiveOtpVerifier) ClearSession(phone string) {
	a.active().ClearSession(phone)
}

func (a *AdaptiveOtpVerifier) RemainingCooldown(phone string) time.Duration {
	return a.active().RemainingCooldown(phone)
}

func (a *AdaptiveOtpVerifier) Mode() string {
	return a.active().Mode()
}

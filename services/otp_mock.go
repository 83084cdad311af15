package services

import (
	"log"
	"time"
)

// MockOtpVerifier accepts a fixed test code locally with the same
// timing and rate-limit contract as the Twilio verifier. For use when
// SMS is not configured (dev/demo environments).
type MockOtpVerifier struct {
	store *otpSessionStore
}

func NewMockOtpVerifier() *MockOtpVerifier {
	log.Println("WARNING: using mock OTP verifier, test code is accepted")
	return &MockOtpVerifier{store: newOtpSessionStore()}
}

func (m *MockOtpVerifier) SendCode(phone string) (string, error) {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return "", err
	}

	if err := m.store.begin(formatted, MockOtpCode); err != nil {
		return "", err
	}

	log.Printf("[MOCK OTP] code for %s: %s", formatted, MockOtpCode)
	return formatted, nil
}

func (m *MockOtpVerifier) VerifyCode(phone, code string) (string, error) {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return "", err
	}
	if err := m.store.verify(formatted, code); err != nil {
		return "", err
	}
	return formatted, nil
}

func (m *MockOtpVerifier) ResendCode(phone string) error {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return err
	}
	if !m.store.has(formatted) {
		return ErrNoSession
	}
	_, err = m.SendCode(formatted)
	return err
}

func (m *MockOtpVerifier) ClearSession(phone string) {
	if formatted, err := canonicalPhone(phone); err == nil {
		m.store.clear(formatted)
	}
}

func (m *MockOtpVerifier) RemainingCooldown(phone string) time.Duration {
	formatted, err := canonicalPhone(phone)
	if err != nil {
		return 0
	}
	return m.store.remainingCooldown(formatted)
}

func (m *MockOtpVerifier) Mode() string { return "mock" }

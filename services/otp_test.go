package services

import (
	"errors"
	"testing"
	"time"
)

// rewindSession shifts the active session's issue time into the past.
func rewindSession(t *testing.T, store *otpSessionStore, phone string, d time.Duration) {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	sess := store.sessions[phone]
	if sess == nil {
		t.Fatalf("no session for %s", phone)
	}
	sess.issuedAt = sess.issuedAt.Add(-d)
}

func TestMockSendAndVerify(t *testing.T) {
	v := NewMockOtpVerifier()

	phone, err := v.SendCode("9876543210")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if phone != "+919876543210" {
		t.Fatalf("expected canonical phone +919876543210, got %s", phone)
	}

	got, err := v.VerifyCode("9876543210", MockOtpCode)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != phone {
		t.Fatalf("verified phone mismatch: %s", got)
	}

	// session is cleared on success; a second verify has no session
	if _, err := v.VerifyCode("9876543210", MockOtpCode); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after successful verify, got %v", err)
	}
}

func TestMockVerifyWrongCode(t *testing.T) {
	v := NewMockOtpVerifier()
	if _, err := v.SendCode("9876543210"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := v.VerifyCode("9876543210", "000000"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	// wrong code does not clear the session
	if _, err := v.VerifyCode("9876543210", MockOtpCode); err != nil {
		t.Fatalf("verify after wrong code: %v", err)
	}
}

func TestMockVerifyExpired(t *testing.T) {
	v := NewMockOtpVerifier()
	if _, err := v.SendCode("9876543210"); err != nil {
		t.Fatalf("send: %v", err)
	}

	rewindSession(t, v.store, "+919876543210", otpExpiry+time.Second)

	if _, err := v.VerifyCode("9876543210", MockOtpCode); !errors.Is(err, ErrOtpExpired) {
		t.Fatalf("expected ErrOtpExpired, got %v", err)
	}

	// expiry clears the session
	if _, err := v.VerifyCode("9876543210", MockOtpCode); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}

func TestMockRateLimit(t *testing.T) {
	v := NewMockOtpVerifier()

	for i := 0; i < otpMaxAttempts; i++ {
		if _, err := v.SendCode("9876543210"); err != nil {
			t.Fatalf("send %d: %v", i+1, err)
		}
	}

	if _, err := v.SendCode("9876543210"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited on 4th send, got %v", err)
	}

	if v.RemainingCooldown("9876543210") <= 0 {
		t.Fatal("expected a positive remaining cooldown while rate limited")
	}

	// after the cooldown elapses sends are allowed again
	rewindSession(t, v.store, "+919876543210", otpCooldown+time.Second)
	if _, err := v.SendCode("9876543210"); err != nil {
		t.Fatalf("send after cooldown: %v", err)
	}
}

func TestMockResend(t *testing.T) {
	v := NewMockOtpVerifier()

	if err := v.ResendCode("9876543210"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession without a session, got %v", err)
	}

	if _, err := v.SendCode("9876543210"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := v.ResendCode("9876543210"); err != nil {
		t.Fatalf("resend: %v", err)
	}

	// resend supersedes, it does not queue: still one session
	if _, err := v.VerifyCode("9876543210", MockOtpCode); err != nil {
		t.Fatalf("verify after resend: %v", err)
	}
}

func TestMockClearSession(t *testing.T) {
	v := NewMockOtpVerifier()
	if _, err := v.SendCode("9876543210"); err != nil {
		t.Fatalf("send: %v", err)
	}

	v.ClearSession("9876543210")

	if _, err := v.VerifyCode("9876543210", MockOtpCode); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestMockInvalidPhone(t *testing.T) {
	v := NewMockOtpVerifier()
	if _, err := v.SendCode("abc"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

// stub verifier used to exercise the adaptive fallback paths
type stubVerifier struct {
	sendErr error
}

func (s *stubVerifier) SendCode(phone string) (string, error)         { return "", s.sendErr }
func (s *stubVerifier) VerifyCode(phone, code string) (string, error) { return "", s.sendErr }
func (s *stubVerifier) ResendCode(phone string) error                 { return s.sendErr }
func (s *stubVerifier) ClearSession(phone string)                     {}
func (s *stubVerifier) RemainingCooldown(phone string) time.Duration  { return 0 }
func (s *stubVerifier) Mode() string                                  { return "stub" }

func TestAdaptiveFallbackOnConfigError(t *testing.T) {
	a := &AdaptiveOtpVerifier{
		real: &stubVerifier{sendErr: ErrProviderConfig},
		mock: NewMockOtpVerifier(),
	}

	phone, err := a.SendCode("9876543210")
	if err != nil {
		t.Fatalf("send with fallback: %v", err)
	}
	if phone != "+919876543210" {
		t.Fatalf("unexpected phone %s", phone)
	}
	if a.Mode() != "mock" {
		t.Fatalf("expected mock mode after fallback, got %s", a.Mode())
	}

	// the mock session is live end to end
	if _, err := a.VerifyCode("9876543210", MockOtpCode); err != nil {
		t.Fatalf("verify after fallback: %v", err)
	}
}

func TestAdaptiveResendFallsBackToFreshSend(t *testing.T) {
	a := &AdaptiveOtpVerifier{
		real: &stubVerifier{sendErr: ErrProviderConfig},
		mock: NewMockOtpVerifier(),
	}

	// no session exists in the mock store at switch time; the fallback
	// resend must start one rather than surface ErrNoSession
	if err := a.ResendCode("9876543210"); err != nil {
		t.Fatalf("resend with fallback: %v", err)
	}
	if a.Mode() != "mock" {
		t.Fatalf("expected mock mode after fallback, got %s", a.Mode())
	}
	if _, err := a.VerifyCode("9876543210", MockOtpCode); err != nil {
		t.Fatalf("verify after fallback resend: %v", err)
	}
}

func TestAdaptiveNoFallbackOnOtherErrors(t *testing.T) {
	sentinel := errors.New("provider rejected the number")
	a := &AdaptiveOtpVerifier{
		real: &stubVerifier{sendErr: sentinel},
		mock: NewMockOtpVerifier(),
	}

	if _, err := a.SendCode("9876543210"); !errors.Is(err, sentinel) {
		t.Fatalf("expected provider error to surface, got %v", err)
	}
	if a.Mode() != "stub" {
		t.Fatalf("expected to stay on real verifier, got %s", a.Mode())
	}
}

func TestAdaptiveMockModeByConfig(t *testing.T) {
	t.Setenv("OTP_MODE", "mock")
	t.Setenv("TWILIO_ACCOUNT_SID", "ACxxxx")

	a := NewAdaptiveOtpVerifier()
	if a.Mode() != "mock" {
		t.Fatalf("expected mock mode from OTP_MODE, got %s", a.Mode())
	}
}

func TestClassifyTwilioError(t *testing.T) {
	if err := classifyTwilioError(errors.New("timeout")); errors.Is(err, ErrProviderConfig) {
		t.Fatal("plain errors must not be classified as config errors")
	}
}

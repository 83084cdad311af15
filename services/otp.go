package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"cleancut-backend/utils"
)

const (
	otpExpiry      = 5 * time.Minute
	otpCooldown    = 5 * time.Minute
	otpMaxAttempts = 3

	// MockOtpCode is the fixed code accepted by the mock verifier.
	MockOtpCode = "123456"
)

var (
	ErrRateLimited  = errors.New("too many attempts, wait before requesting another code")
	ErrNoSession    = errors.New("no OTP session found, request a new code")
	ErrOtpExpired   = errors.New("OTP has expired, request a new one")
	ErrInvalidCode  = errors.New("invalid verification code")
	ErrInvalidPhone = errors.New("invalid phone number format")

	// ErrProviderConfig marks SMS provider misconfiguration. The adaptive
	// verifier falls back to the mock on this class of error only.
	ErrProviderConfig = errors.New("SMS provider not configured")
)

// OtpVerifier sends short numeric codes to phone numbers and confirms
// user-submitted codes. Sessions are keyed by canonical phone number:
// one outstanding session per number, superseded on each send.
type OtpVerifier interface {
	// SendCode issues a code to phone and returns the canonical number.
	SendCode(phone string) (string, error)
	// VerifyCode checks code against the session for phone and clears
	// the session on success, returning the canonical number.
	VerifyCode(phone, code string) (string, error)
	// ResendCode re-issues a code for an existing session.
	ResendCode(phone string) error
	// ClearSession drops any outstanding session for phone.
	ClearSession(phone string)
	// RemainingCooldown reports how long a rate-limited number must wait.
	RemainingCooldown(phone string) time.Duration
	// Mode identifies the active implementation ("twilio" or "mock").
	Mode() string
}

type otpSession struct {
	phoneNumber string
	code        string
	issuedAt    time.Time
	attempts    int
}

// otpSessionStore holds the single outstanding session per phone number.
// Shared by the mock and Twilio verifiers so both honor the same
// rate-limit and expiry contract.
type otpSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*otpSession
	now      func() time.Time
}

func newOtpSessionStore() *otpSessionStore {
	return &otpSessionStore{
		sessions: make(map[string]*otpSession),
		now:      time.Now,
	}
}

// begin records a new session for phone, superseding any prior one.
// Returns ErrRateLimited when the number is inside its cooldown window.
func (s *otpSessionStore) begin(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sessions[phone]
	if prev != nil && s.rateLimited(prev) {
		return ErrRateLimited
	}

	attempts := 1
	if prev != nil {
		attempts = prev.attempts + 1
	}

	s.sessions[phone] = &otpSession{
		phoneNumber: phone,
		code:        code,
		issuedAt:    s.now(),
		attempts:    attempts,
	}
	return nil
}

// checkSendAllowed reports whether a send for phone would be rate limited,
// without mutating the session.
func (s *otpSessionStore) checkSendAllowed(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := s.sessions[phone]; prev != nil && s.rateLimited(prev) {
		return ErrRateLimited
	}
	return nil
}

// verify confirms code for phone and clears the session on success.
func (s *otpSessionStore) verify(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[phone]
	if sess == nil {
		return ErrNoSession
	}

	if s.now().Sub(sess.issuedAt) > otpExpiry {
		delete(s.sessions, phone)
		return ErrOtpExpired
	}

	if code != sess.code {
		return ErrInvalidCode
	}

	delete(s.sessions, phone)
	return nil
}

func (s *otpSessionStore) has(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[phone] != nil
}

func (s *otpSessionStore) clear(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, phone)
}

func (s *otpSessionStore) remainingCooldown(phone string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[phone]
	if sess == nil || !s.rateLimited(sess) {
		return 0
	}
	return otpCooldown - s.now().Sub(sess.issuedAt)
}

func (s *otpSessionStore) rateLimited(sess *otpSession) bool {
	return sess.attempts >= otpMaxAttempts && s.now().Sub(sess.issuedAt) < otpCooldown
}

// generateOtpCode returns a random zero-padded 6-digit code.
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// canonicalPhone validates and normalizes a phone number for session keys.
func canonicalPhone(phone string) (string, error) {
	formatted := utils.FormatPhoneNumber(phone)
	if !utils.ValidatePhone(formatted) {
		return "", ErrInvalidPhone
	}
	return formatted, nil
}

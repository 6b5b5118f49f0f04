package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
	// Channel selects the delivery transport: "email" (default) or "sms".
	// SMS requires a phone number on the account.
	Channel string `json:"channel" validate:"omitempty,oneof=email sms"`
}

// Service drives the one-time-code flows: password reset and account email
// verification. The code-verified state lives server-side on the
// verification record, so the final password submission never has to trust
// a client-held "verified" flag.
type Service interface {
	RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	RequestEmailVerification(ctx context.Context, userID string) error
	VerifyEmail(ctx context.Context, userID, code string) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, email, purpose string) (*domain.Verification, error)
	MarkVerified(ctx context.Context, email, purpose string) error
	Delete(ctx context.Context, email, purpose string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, newHash string) error
	SetEmailVerified(ctx context.Context, email string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	verificationRepo verificationStore
	userRepo         userStore
	mailer           mailer
	smsSender        smsSender
	otpExpiry        time.Duration
	storeTimeout     time.Duration
}

type ServiceDeps struct {
	VerificationRepo verificationStore
	UserRepo         userStore
	Mailer           mailer
	SMSSender        smsSender
	OTPExpiry        time.Duration
	StoreTimeout     time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		verificationRepo: deps.VerificationRepo,
		userRepo:         deps.UserRepo,
		mailer:           deps.Mailer,
		smsSender:        deps.SMSSender,
		otpExpiry:        deps.OTPExpiry,
		storeTimeout:     deps.StoreTimeout,
	}
}

// RequestPasswordReset generates a fresh code for the account and delivers
// it out-of-band. An unknown email fails loudly with ErrNotFound; writing a
// new code overwrites any earlier pending one.
func (s *service) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return domain.Upstream("user lookup", err)
	}
	if req.Channel == "sms" && u.Phone == nil {
		return fmt.Errorf("no phone number on account: %w", domain.ErrMissingFields)
	}

	code, err := otp.NewCode()
	if err != nil {
		return err
	}
	v := &domain.Verification{
		Email:     u.Email,
		Purpose:   domain.PurposeReset,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpExpiry).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return domain.Upstream("verification write", err)
	}

	return s.deliver(ctx, u, req.Channel, "Password Reset OTP", "Your password reset code is "+code)
}

// VerifyResetCode checks a submitted code against the pending entry and
// records the success server-side. A mismatch leaves the entry untouched:
// no attempt counter, no lockout.
func (s *service) VerifyResetCode(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.pendingCode(ctx, email, domain.PurposeReset, code); err != nil {
		return err
	}
	if err := s.verificationRepo.MarkVerified(ctx, email, domain.PurposeReset); err != nil {
		return domain.Upstream("verification update", err)
	}
	return nil
}

// ResetPassword re-validates the code and expiry, requires the server-side
// verified marker set by VerifyResetCode, then swaps the password hash and
// consumes the entry.
func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	v, err := s.pendingCode(ctx, email, domain.PurposeReset, code)
	if err != nil {
		return err
	}
	if !v.Verified {
		return fmt.Errorf("code was not verified: %w", domain.ErrInvalidCode)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, email, string(hash)); err != nil {
		return domain.Upstream("password update", err)
	}
	if err := s.verificationRepo.Delete(ctx, email, domain.PurposeReset); err != nil {
		slog.Warn("failed to delete consumed reset code", "email", email, "err", err)
	}
	return nil
}

func (s *service) RequestEmailVerification(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Upstream("user lookup", err)
	}
	if u.EmailVerified {
		return fmt.Errorf("account already verified: %w", domain.ErrAlreadyExists)
	}

	code, err := otp.NewCode()
	if err != nil {
		return err
	}
	v := &domain.Verification{
		Email:     u.Email,
		Purpose:   domain.PurposeVerify,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpExpiry).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return domain.Upstream("verification write", err)
	}
	return s.deliver(ctx, u, "", "Account Verification OTP", "Your verification code is "+code)
}

func (s *service) VerifyEmail(ctx context.Context, userID, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Upstream("user lookup", err)
	}
	if _, err := s.pendingCode(ctx, u.Email, domain.PurposeVerify, code); err != nil {
		return err
	}
	if err := s.userRepo.SetEmailVerified(ctx, u.Email); err != nil {
		return domain.Upstream("user update", err)
	}
	if err := s.verificationRepo.Delete(ctx, u.Email, domain.PurposeVerify); err != nil {
		slog.Warn("failed to delete consumed verification code", "email", u.Email, "err", err)
	}
	return nil
}

// pendingCode fetches the active entry for (email, purpose) and validates
// expiry and code. Expiry wins over a matching code.
func (s *service) pendingCode(ctx context.Context, email, purpose, code string) (*domain.Verification, error) {
	v, err := s.verificationRepo.Get(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no pending code for this account: %w", domain.ErrNoActiveRequest)
		}
		return nil, domain.Upstream("verification lookup", err)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("code expired: %w", domain.ErrExpired)
	}
	if v.Code != code {
		return nil, fmt.Errorf("wrong code: %w", domain.ErrInvalidCode)
	}
	return v, nil
}

func (s *service) deliver(ctx context.Context, u *domain.User, channel, subject, body string) error {
	var err error
	if channel == "sms" {
		if s.smsSender == nil {
			return fmt.Errorf("sms channel not configured: %w", domain.ErrUpstreamUnavailable)
		}
		err = s.smsSender.SendSMS(ctx, *u.Phone, body)
	} else {
		err = s.mailer.SendEmail(u.Email, subject, body)
	}
	if err != nil {
		slog.Warn("otp delivery failed", "email", u.Email, "channel", channel, "err", err)
		return fmt.Errorf("could not deliver code: %w", domain.ErrUpstreamUnavailable)
	}
	return nil
}

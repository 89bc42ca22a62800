package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/seller-portal-api/internal/domain"
	"github.com/seller-portal-api/internal/infrastructure/smtp"
	"github.com/seller-portal-api/internal/pkg/id"
	"github.com/seller-portal-api/internal/pkg/otp"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldVerifyCode       = "verify_code"
	fieldVerifyCodeExpiry = "verify_code_expiry"
	fieldResendCode       = "resend_code"
	fieldIsVerified       = "is_verified"
)

// RegisterResult reports the outcome of a lookup-or-register call. Created
// is false for an idempotent lookup of an existing account; EmailSent is
// false when registration succeeded but the verification mail could not be
// dispatched (degraded mode).
type RegisterResult struct {
	Seller    *domain.Seller
	Created   bool
	EmailSent bool
}

// ResendResult carries the timing hints a client needs to render countdowns.
type ResendResult struct {
	ExpiresAt           time.Time `json:"expiresAt"`
	NextResendAvailable time.Time `json:"nextResendAvailable"`
}

// Service owns the email-verification lifecycle of a seller account:
// code issuance at registration, verification, expiry, and throttled resend.
type Service interface {
	LookupOrRegister(ctx context.Context, req domain.RegisterSellerRequest) (*RegisterResult, error)
	Status(ctx context.Context, email string) (*domain.Seller, error)
	Verify(ctx context.Context, email, code string) error
	Resend(ctx context.Context, email, sellerID string) (*ResendResult, error)
}

type sellerStore interface {
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
	GetByEmail(ctx context.Context, email string) (*domain.Seller, error)
	Put(ctx context.Context, s *domain.Seller) error
	Update(ctx context.Context, sellerID string, updates map[string]interface{}) error
}

type service struct {
	repo           sellerStore
	mailer         smtp.Mailer
	codeTTL        time.Duration
	resendCooldown time.Duration
	now            func() time.Time
}

func NewService(repo sellerStore, mailer smtp.Mailer, codeTTL, resendCooldown time.Duration) Service {
	return &service{
		repo:           repo,
		mailer:         mailer,
		codeTTL:        codeTTL,
		resendCooldown: resendCooldown,
		now:            time.Now,
	}
}

// LookupOrRegister returns the existing account for the email unchanged, or
// creates one with a fresh verification code. Existing accounts are never
// re-issued a code by being looked up. Mail dispatch failure does not fail
// the registration; the result carries a degraded-mode flag instead.
func (s *service) LookupOrRegister(ctx context.Context, req domain.RegisterSellerRequest) (*RegisterResult, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return &RegisterResult{Seller: existing}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	code, err := otp.Code()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	expiry := now.Add(s.codeTTL)
	resendAt := now.Add(s.resendCooldown)
	seller := &domain.Seller{
		SellerID:         id.New(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		CompanyName:      req.CompanyName,
		ProfileImageURL:  req.ProfileImageURL,
		VerifyCode:       code,
		VerifyCodeExpiry: &expiry,
		ResendCode:       &resendAt,
		Products:         []domain.Product{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Put(ctx, seller); err != nil {
		return nil, err
	}

	emailSent := true
	if err := s.sendCode(seller, code); err != nil {
		slog.Warn("failed to send verification email", "seller_id", seller.SellerID, "err", err)
		emailSent = false
	}
	return &RegisterResult{Seller: seller, Created: true, EmailSent: emailSent}, nil
}

func (s *service) Status(ctx context.Context, email string) (*domain.Seller, error) {
	seller, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return seller, nil
}

// Verify checks the submitted code against the stored one. An expired code
// is rejected even when it matches; the error reports whether a resend is
// available right now. Verifying an already-verified account with a
// still-valid matching code is a no-op, not an error.
func (s *service) Verify(ctx context.Context, email, code string) error {
	seller, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	if seller.CodeExpired(now) {
		e := &domain.ExpiredError{CanResend: seller.CanResendOTP(now)}
		if !e.CanResend {
			e.NextResendTime = seller.ResendCode
		}
		return e
	}

	submitted, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil || submitted != seller.VerifyCode {
		return fmt.Errorf("invalid verification code: %w", domain.ErrBadRequest)
	}

	if seller.IsVerified {
		return nil
	}
	return s.repo.Update(ctx, seller.SellerID, map[string]interface{}{fieldIsVerified: true})
}

// Resend rotates the verification code for an unverified account once the
// cooldown has elapsed. The expiry and cooldown clocks are independent: a
// code can be expired while the cooldown still blocks a new one. The new
// state is persisted before dispatch, so a mail failure surfaces as an
// external-dependency error without undoing the rotation.
func (s *service) Resend(ctx context.Context, email, sellerID string) (*ResendResult, error) {
	seller, err := s.repo.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Email != email {
		return nil, fmt.Errorf("email does not match user record: %w", domain.ErrBadRequest)
	}
	if seller.IsVerified {
		return nil, fmt.Errorf("user is already verified: %w", domain.ErrBadRequest)
	}

	now := s.now().UTC()
	if !seller.CanResendOTP(now) {
		wait := seller.ResendCode.Sub(now)
		return nil, &domain.ThrottledError{
			HoursToWait:    int(math.Ceil(wait.Hours())),
			NextResendTime: *seller.ResendCode,
		}
	}

	code, err := otp.Code()
	if err != nil {
		return nil, err
	}
	expiry := now.Add(s.codeTTL)
	resendAt := now.Add(s.resendCooldown)
	err = s.repo.Update(ctx, seller.SellerID, map[string]interface{}{
		fieldVerifyCode:       code,
		fieldVerifyCodeExpiry: expiry,
		fieldResendCode:       resendAt,
	})
	if err != nil {
		return nil, err
	}

	if err := s.sendCode(seller, code); err != nil {
		slog.Warn("failed to send verification email on resend", "seller_id", seller.SellerID, "err", err)
		return nil, fmt.Errorf("failed to send verification email: %w", domain.ErrExternal)
	}
	return &ResendResult{ExpiresAt: expiry, NextResendAvailable: resendAt}, nil
}

func (s *service) sendCode(seller *domain.Seller, code int) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nThank you for registering. Please use the following verification code to complete your registration:\n\n%06d\n\nIf you did not request this code, please ignore this email.",
		seller.FirstName, code,
	)
	return s.mailer.SendEmail(seller.Email, "Seller Portal | Verification Code", body)
}

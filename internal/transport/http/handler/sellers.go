package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seller-portal-api/internal/application/verification"
	"github.com/seller-portal-api/internal/domain"
	"github.com/seller-portal-api/internal/pkg/validate"
)

// SellerHandler handles registration and the email verification flow.
type SellerHandler struct {
	svc verification.Service
}

func NewSellerHandler(svc verification.Service) *SellerHandler {
	return &SellerHandler{svc: svc}
}

// Register handles POST /user: idempotent lookup-or-register by email.
func (h *SellerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.LookupOrRegister(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	env := RegisterEnvelope{Message: res.Seller.FirstName, Payload: res.Seller}
	if !res.Created {
		writeJSON(w, http.StatusOK, env)
		return
	}
	if res.EmailSent {
		env.EmailStatus = "Verification email sent successfully"
	} else {
		env.EmailStatus = "Failed to send verification email"
	}
	writeJSON(w, http.StatusCreated, env)
}

// VerifyCheck handles GET /verify?email=: reports whether the account is verified.
func (h *SellerHandler) VerifyCheck(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	seller, err := h.svc.Status(r.Context(), email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyCheckEnvelope{Message: seller.IsVerified, Payload: seller})
}

// VerifyUser handles POST /verifyuser: checks the submitted OTP.
func (h *SellerHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string      `json:"email"`
		Code  json.Number `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == "" || body.Code == "" {
		writeError(w, http.StatusBadRequest, "Email and verification code are required")
		return
	}

	err := h.svc.Verify(r.Context(), body.Email, body.Code.String())
	var expired *domain.ExpiredError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, VerifyResultEnvelope{
			Message: "Account verified successfully",
			Payload: true,
		})
	case errors.As(err, &expired):
		writeJSON(w, http.StatusGone, VerifyResultEnvelope{
			Message:        "Verification code has expired. Please request a new one.",
			Expired:        true,
			CanResend:      &expired.CanResend,
			NextResendTime: expired.NextResendTime,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, VerifyResultEnvelope{Message: "User not found"})
	case errors.Is(err, domain.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, VerifyResultEnvelope{Message: "Invalid verification code"})
	default:
		httpError(w, err)
	}
}

// ResendOTP handles POST /resendotp: throttled re-issuance of the OTP.
func (h *SellerHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email  string `json:"email"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == "" || body.UserID == "" {
		writeError(w, http.StatusBadRequest, "Email and user ID are required")
		return
	}

	res, err := h.svc.Resend(r.Context(), body.Email, body.UserID)
	if err != nil {
		var throttled *domain.ThrottledError
		if errors.As(err, &throttled) {
			writeJSON(w, http.StatusTooManyRequests, ThrottledEnvelope{
				Message:        throttled.Error(),
				NextResendTime: throttled.NextResendTime,
			})
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResendEnvelope{
		Message:             "Verification code resent successfully",
		ExpiresAt:           res.ExpiresAt,
		NextResendAvailable: res.NextResendAvailable,
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/seller-portal-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// RegisterEnvelope wraps lookup-or-register responses. EmailStatus reports
// the degraded-mode flag when dispatch of the verification mail failed.
type RegisterEnvelope struct {
	Message     string         `json:"message"`
	Payload     *domain.Seller `json:"payload"`
	EmailStatus string         `json:"emailStatus,omitempty"`
}

// VerifyCheckEnvelope wraps GET /verify responses; Message carries the
// verified flag.
type VerifyCheckEnvelope struct {
	Message bool           `json:"message"`
	Payload *domain.Seller `json:"payload"`
}

// VerifyResultEnvelope wraps POST /verifyuser responses, including the
// expired case with its resend availability hints.
type VerifyResultEnvelope struct {
	Message        string     `json:"message"`
	Payload        bool       `json:"payload"`
	Expired        bool       `json:"expired,omitempty"`
	CanResend      *bool      `json:"canResend,omitempty"`
	NextResendTime *time.Time `json:"nextResendTime,omitempty"`
}

// ResendEnvelope wraps successful resend responses.
type ResendEnvelope struct {
	Message             string    `json:"message"`
	ExpiresAt           time.Time `json:"expiresAt"`
	NextResendAvailable time.Time `json:"nextResendAvailable"`
}

// ThrottledEnvelope wraps a rejected resend with its countdown hint.
type ThrottledEnvelope struct {
	Message        string    `json:"message"`
	NextResendTime time.Time `json:"nextResendTime"`
}

// ProductEnvelope wraps catalog mutation responses.
type ProductEnvelope struct {
	Message string      `json:"message"`
	Payload interface{} `json:"payload,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// UploadEnvelope wraps image upload responses.
type UploadEnvelope struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	PublicID string `json:"publicId,omitempty"`
	Message  string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// httpError maps domain sentinels to HTTP status codes. Typed errors that
// need richer envelopes (expired, throttled, quantity floor) are handled in
// their handlers before reaching this fallback.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, domain.ErrThrottled):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrExternal):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

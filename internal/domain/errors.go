package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrExpired    = errors.New("expired")
	ErrThrottled  = errors.New("throttled")
	ErrExternal   = errors.New("external dependency failure")
)

// ExpiredError reports that a verification code can no longer be used.
// It tells the caller whether a resend is permitted right now so the client
// can render the right next step without a second round trip.
type ExpiredError struct {
	CanResend      bool
	NextResendTime *time.Time
}

func (e *ExpiredError) Error() string {
	return "verification code has expired"
}

func (e *ExpiredError) Unwrap() error { return ErrExpired }

// ThrottledError reports a resend requested before the cooldown elapsed.
// HoursToWait is the ceiling of the remaining wait.
type ThrottledError struct {
	HoursToWait    int
	NextResendTime time.Time
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("you can request another OTP in %d hour(s)", e.HoursToWait)
}

func (e *ThrottledError) Unwrap() error { return ErrThrottled }

// QuantityFloorError reports a decrement attempt on a product already at
// zero stock. Product carries the unchanged entry so the caller can show
// current state instead of a bare failure.
type QuantityFloorError struct {
	Product *Product
}

func (e *QuantityFloorError) Error() string {
	return "cannot decrease quantity below 0"
}

func (e *QuantityFloorError) Unwrap() error { return ErrBadRequest }

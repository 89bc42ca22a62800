package domain

import "time"

// Seller is the single authoritative document per account: profile,
// verification state, and the embedded product catalog.
type Seller struct {
	SellerID         string     `json:"baseID" dynamodbav:"seller_id"`
	FirstName        string     `json:"firstName" dynamodbav:"first_name"`
	LastName         string     `json:"lastName,omitempty" dynamodbav:"last_name"`
	Email            string     `json:"email" dynamodbav:"email"`
	Phone            string     `json:"phNum,omitempty" dynamodbav:"phone"`
	CompanyName      string     `json:"companyName,omitempty" dynamodbav:"company_name"`
	ProfileImageURL  string     `json:"profileImageUrl,omitempty" dynamodbav:"profile_image_url"`
	VerifyCode       int        `json:"-" dynamodbav:"verify_code"`
	VerifyCodeExpiry *time.Time `json:"verifyCodeExpiry,omitempty" dynamodbav:"verify_code_expiry"`
	ResendCode       *time.Time `json:"resendCode,omitempty" dynamodbav:"resend_code"`
	IsVerified       bool       `json:"isVerified" dynamodbav:"is_verified"`
	Products         []Product  `json:"product" dynamodbav:"products"`
	CreatedAt        time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// CanResendOTP reports whether the resend cooldown has elapsed at now.
// A nil ResendCode means no code was ever issued with a cooldown, so a
// resend is allowed.
func (s *Seller) CanResendOTP(now time.Time) bool {
	return s.ResendCode == nil || now.After(*s.ResendCode)
}

// CodeExpired reports whether the current verification code is unusable at
// now. An unset expiry counts as expired: a code is meaningful only while
// its expiry is in the future.
func (s *Seller) CodeExpired(now time.Time) bool {
	return s.VerifyCodeExpiry == nil || now.After(*s.VerifyCodeExpiry)
}

type RegisterSellerRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phNum"`
	CompanyName     string `json:"companyName"`
	ProfileImageURL string `json:"profileImageUrl"`
}

package domain

import "time"

// Signup channels.
const (
	SignupEmail  = "e"
	SignupSocial = "s"
	SignupGoogle = "g"
)

// Account is the local system of record for credentials and verification flags.
type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FullName         string    `json:"full_name"`
	Gender           *string   `json:"gender"`
	MobileNo         *string   `json:"mobile_no"`
	SignupType       string    `json:"signup_type"`
	FirebaseUID      *string   `json:"firebase_uid,omitempty"`
	IsEmailVerified  bool      `json:"is_email_verified"`
	IsMobileVerified bool      `json:"is_mobile_verified"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ExternalUID returns the identity-provider reference or "" when none is linked.
func (a *Account) ExternalUID() string {
	if a.FirebaseUID == nil {
		return ""
	}
	return *a.FirebaseUID
}

type RegisterRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required"`
	FullName   string  `json:"full_name" validate:"required"`
	Gender     *string `json:"gender" validate:"omitempty,oneof=m f o"`
	MobileNo   string  `json:"mobile_no" validate:"required"`
	SignupType string  `json:"signup_type" validate:"omitempty,oneof=e s g"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SendOTPRequest resolves the target account by id or, failing that, by email.
type SendOTPRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type VerifyMobileRequest struct {
	UserID string `json:"user_id" validate:"required"`
	OTP    string `json:"otp" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=m f o"`
}

type UpdatePhoneRequest struct {
	MobileNo string `json:"mobile_no" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

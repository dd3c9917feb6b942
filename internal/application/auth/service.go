package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/identity"
	"github.com/YogeshxSaini/bluestock/internal/pkg/id"
	"github.com/YogeshxSaini/bluestock/internal/pkg/password"
	"github.com/YogeshxSaini/bluestock/internal/pkg/phone"
	pkgtoken "github.com/YogeshxSaini/bluestock/internal/pkg/token"
	"github.com/YogeshxSaini/bluestock/internal/pkg/validate"
)

const (
	otpTTL        = 10 * time.Minute
	emailTokenTTL = 24 * time.Hour
)

// RegisterResult is a created account plus the best-effort steps that failed.
// VerificationURL is only filled when secrets may be echoed (non-production).
type RegisterResult struct {
	Account         *domain.Account `json:"user"`
	Warnings        []string        `json:"warnings"`
	VerificationURL string          `json:"verification_url,omitempty"`
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *domain.Account `json:"user"`
	Warnings  []string        `json:"warnings"`
}

type OTPResult struct {
	ExpiresAt   time.Time `json:"expires_at"`
	CustomToken string    `json:"custom_token"`
	Warnings    []string  `json:"warnings"`
	OTP         string    `json:"otp,omitempty"`
}

type ResendResult struct {
	Warnings        []string `json:"warnings"`
	VerificationURL string   `json:"verification_url,omitempty"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	VerifyEmail(ctx context.Context, userID, token string) (*domain.Account, error)
	ResendVerification(ctx context.Context, userID string) (*ResendResult, error)
	SendOTP(ctx context.Context, req domain.SendOTPRequest) (*OTPResult, error)
	VerifyMobile(ctx context.Context, req domain.VerifyMobileRequest) (*domain.Account, error)
}

type accountStore interface {
	Create(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	MarkEmailVerified(ctx context.Context, id string) (*domain.Account, error)
	MarkMobileVerified(ctx context.Context, id string) (*domain.Account, error)
}

type verificationLedger interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, accountID, purpose string) (*domain.Verification, error)
	Delete(ctx context.Context, accountID, purpose string) error
}

type identityProvider interface {
	CreateUser(ctx context.Context, u identity.NewUser) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	EmailVerificationLink(ctx context.Context, email, continueURL string) (string, error)
	LookupUID(ctx context.Context, email string) (string, error)
	CustomToken(ctx context.Context, uid string) (string, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type tokenSigner interface {
	Sign(userID, email, firebaseUID string) (string, time.Time, error)
}

type service struct {
	accounts      accountStore
	ledger        verificationLedger
	provider      identityProvider
	mailer        mailer
	sms           smsSender
	signer        tokenSigner
	publicBaseURL string
	echoSecrets   bool
	bcryptCost    int
	now           func() time.Time
}

// ServiceDeps wires the auth service. Mailer and SMSSender are optional; nil
// disables that delivery channel. Now defaults to time.Now.
type ServiceDeps struct {
	Accounts      accountStore
	Ledger        verificationLedger
	Provider      identityProvider
	Mailer        mailer
	SMSSender     smsSender
	Signer        tokenSigner
	PublicBaseURL string
	EchoSecrets   bool
	BcryptCost    int
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		accounts:      deps.Accounts,
		ledger:        deps.Ledger,
		provider:      deps.Provider,
		mailer:        deps.Mailer,
		sms:           deps.SMSSender,
		signer:        deps.Signer,
		publicBaseURL: strings.TrimRight(deps.PublicBaseURL, "/"),
		echoSecrets:   deps.EchoSecrets,
		bcryptCost:    deps.BcryptCost,
		now:           now,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error) {
	details := validate.Struct(req)
	if req.Password != "" {
		details = append(details, password.Violations(req.Password)...)
	}
	var e164 string
	if req.MobileNo != "" {
		var err error
		if e164, err = phone.Normalize(req.MobileNo); err != nil {
			details = append(details, err.Error())
		}
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError("validation failed", details...)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	fullName := strings.TrimSpace(req.FullName)
	uid, err := s.provider.CreateUser(ctx, identity.NewUser{
		Email:       email,
		Password:    req.Password,
		DisplayName: fullName,
		Phone:       e164,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("identity provider already has this email: %w", err)
		}
		return nil, fmt.Errorf("failed to create identity account: %v: %w", err, domain.ErrUpstream)
	}

	hash, err := password.Hash(req.Password, s.bcryptCost)
	if err != nil {
		s.compensate(ctx, uid)
		return nil, err
	}
	signupType := req.SignupType
	if signupType == "" {
		signupType = domain.SignupEmail
	}
	now := s.now().UTC()
	acc := &domain.Account{
		ID:           id.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Gender:       req.Gender,
		MobileNo:     &e164,
		SignupType:   signupType,
		FirebaseUID:  &uid,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		s.compensate(ctx, uid)
		return nil, err
	}

	link, warnings, err := s.issueEmailVerification(ctx, acc)
	if err != nil {
		slog.Warn("email verification not issued", "user_id", acc.ID, "err", err)
		warnings = append(warnings, "email verification could not be issued; request a new link")
	}
	res := &RegisterResult{Account: acc, Warnings: nonNil(warnings)}
	if s.echoSecrets {
		res.VerificationURL = link
	}
	return res, nil
}

// compensate removes a provider account whose local row was never written.
func (s *service) compensate(ctx context.Context, uid string) {
	if err := s.provider.DeleteUser(ctx, uid); err != nil {
		slog.Warn("failed to delete orphaned identity account", "firebase_uid", uid, "err", err)
	}
}

// issueEmailVerification stores a fresh email token and delivers the link. The
// returned error covers token storage only; delivery problems become warnings.
func (s *service) issueEmailVerification(ctx context.Context, acc *domain.Account) (string, []string, error) {
	tok, err := pkgtoken.NewVerificationToken()
	if err != nil {
		return "", nil, err
	}
	if err := s.ledger.Put(ctx, &domain.Verification{
		AccountID: acc.ID,
		Purpose:   domain.PurposeEmail,
		Code:      tok,
		ExpiresAt: s.now().Add(emailTokenTTL).Unix(),
	}); err != nil {
		return "", nil, fmt.Errorf("store email token: %w", err)
	}

	callback := fmt.Sprintf("%s/api/auth/verify-email?userId=%s&token=%s",
		s.publicBaseURL, url.QueryEscape(acc.ID), url.QueryEscape(tok))
	var warnings []string
	link, err := s.provider.EmailVerificationLink(ctx, acc.Email, callback)
	if err != nil {
		slog.Warn("identity provider verification link failed", "user_id", acc.ID, "err", err)
		warnings = append(warnings, "identity provider could not generate a verification link")
		link = callback
	}

	if s.mailer == nil {
		slog.Info("mailer not configured, verification email not sent", "user_id", acc.ID)
		return link, warnings, nil
	}
	body := fmt.Sprintf("Hi %s,\r\n\r\nConfirm your email address by opening this link:\r\n%s\r\n\r\nThe link expires in 24 hours.\r\n",
		acc.FullName, link)
	if err := s.mailer.SendEmail(acc.Email, "Verify your email address", body); err != nil {
		slog.Warn("verification email failed", "user_id", acc.ID, "err", err)
		warnings = append(warnings, "verification email could not be sent")
	}
	return link, warnings, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	if details := validate.Struct(req); len(details) > 0 {
		return nil, domain.NewValidationError("validation failed", details...)
	}
	acc, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !password.Matches(acc.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	var warnings []string
	uid, err := s.provider.LookupUID(ctx, acc.Email)
	switch {
	case err != nil:
		slog.Warn("identity provider lookup failed", "user_id", acc.ID, "err", err)
		warnings = append(warnings, "identity provider lookup failed")
	case uid != acc.ExternalUID():
		slog.Warn("identity provider uid mismatch", "user_id", acc.ID, "stored", acc.ExternalUID(), "provider", uid)
		warnings = append(warnings, "identity provider account does not match")
	}

	tok, exp, err := s.signer.Sign(acc.ID, acc.Email, acc.ExternalUID())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, ExpiresAt: exp, Account: acc, Warnings: nonNil(warnings)}, nil
}

func (s *service) VerifyEmail(ctx context.Context, userID, token string) (*domain.Account, error) {
	if userID == "" || token == "" {
		return nil, domain.NewValidationError("userId and token are required")
	}
	if err := s.consume(ctx, userID, domain.PurposeEmail, token); err != nil {
		return nil, err
	}
	return s.accounts.MarkEmailVerified(ctx, userID)
}

func (s *service) ResendVerification(ctx context.Context, userID string) (*ResendResult, error) {
	acc, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.IsEmailVerified {
		return nil, fmt.Errorf("email is already verified: %w", domain.ErrConflict)
	}
	link, warnings, err := s.issueEmailVerification(ctx, acc)
	if err != nil {
		return nil, err
	}
	res := &ResendResult{Warnings: nonNil(warnings)}
	if s.echoSecrets {
		res.VerificationURL = link
	}
	return res, nil
}

func (s *service) SendOTP(ctx context.Context, req domain.SendOTPRequest) (*OTPResult, error) {
	if req.UserID == "" && req.Email == "" {
		return nil, domain.NewValidationError("user_id or email is required")
	}
	if details := validate.Struct(req); len(details) > 0 {
		return nil, domain.NewValidationError("validation failed", details...)
	}

	var (
		acc *domain.Account
		err error
	)
	if req.UserID != "" {
		acc, err = s.accounts.Get(ctx, req.UserID)
	} else {
		acc, err = s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	}
	if err != nil {
		return nil, err
	}
	if acc.MobileNo == nil || *acc.MobileNo == "" {
		return nil, domain.NewValidationError("mobile number not found for user")
	}

	code, err := pkgtoken.NewOTP()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(otpTTL)
	if err := s.ledger.Put(ctx, &domain.Verification{
		AccountID: acc.ID,
		Purpose:   domain.PurposeMobile,
		Code:      code,
		ExpiresAt: expiresAt.Unix(),
	}); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	res := &OTPResult{ExpiresAt: time.Unix(expiresAt.Unix(), 0).UTC(), Warnings: []string{}}
	if uid := acc.ExternalUID(); uid != "" {
		ct, err := s.provider.CustomToken(ctx, uid)
		if err != nil {
			slog.Warn("custom token generation failed", "user_id", acc.ID, "err", err)
			res.Warnings = append(res.Warnings, "custom token could not be generated")
		}
		res.CustomToken = ct
	}
	if s.sms != nil {
		msg := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
		if err := s.sms.SendSMS(ctx, *acc.MobileNo, msg); err != nil {
			slog.Warn("otp sms failed", "user_id", acc.ID, "err", err)
			res.Warnings = append(res.Warnings, "sms could not be sent")
		}
	}
	if s.echoSecrets {
		res.OTP = code
	}
	return res, nil
}

func (s *service) VerifyMobile(ctx context.Context, req domain.VerifyMobileRequest) (*domain.Account, error) {
	if req.UserID == "" || req.OTP == "" {
		return nil, domain.NewValidationError("user_id and otp are required")
	}
	if !pkgtoken.IsOTPFormat(req.OTP) {
		return nil, domain.NewValidationError("invalid OTP format, must be 6 digits")
	}
	if err := s.consume(ctx, req.UserID, domain.PurposeMobile, req.OTP); err != nil {
		return nil, err
	}
	return s.accounts.MarkMobileVerified(ctx, req.UserID)
}

// consume checks candidate against the ledger entry and deletes the entry when it
// is used or found expired.
func (s *service) consume(ctx context.Context, accountID, purpose, candidate string) error {
	label := "OTP"
	if purpose == domain.PurposeEmail {
		label = "verification token"
	}
	v, err := s.ledger.Get(ctx, accountID, purpose)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no %s found, please request a new one: %w", label, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if v.Expired(s.now()) {
		if err := s.ledger.Delete(ctx, accountID, purpose); err != nil {
			slog.Warn("failed to purge expired verification", "user_id", accountID, "purpose", purpose, "err", err)
		}
		return fmt.Errorf("%s has expired, please request a new one: %w", label, domain.ErrExpired)
	}
	if !pkgtoken.Equal(v.Code, candidate) {
		return fmt.Errorf("invalid %s: %w", label, domain.ErrMismatch)
	}
	if err := s.ledger.Delete(ctx, accountID, purpose); err != nil {
		return fmt.Errorf("consume %s: %w", label, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

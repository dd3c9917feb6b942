package identity

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/YogeshxSaini/bluestock/internal/config"
	"github.com/YogeshxSaini/bluestock/internal/domain"
	"google.golang.org/api/option"
)

// authClient is the subset of *auth.Client the adapter calls.
type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	EmailVerificationLinkWithSettings(ctx context.Context, email string, settings *auth.ActionCodeSettings) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	CustomToken(ctx context.Context, uid string) (string, error)
}

// Firebase mirrors accounts into Firebase Authentication through the Admin SDK.
type Firebase struct {
	client authClient
}

// NewFirebase initialises the Admin SDK from the service-account fields in cfg.
// FIREBASE_AUTH_EMULATOR_HOST, when set, is honoured by the SDK itself.
func NewFirebase(ctx context.Context, cfg *config.Config) (*Firebase, error) {
	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.FirebaseProjectID,
		"client_email": cfg.FirebaseClientEmail,
		"private_key":  cfg.FirebasePrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, err
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &Firebase{client: client}, nil
}

// mapError tags the SDK errors callers branch on; everything else keeps the
// provider message and no sentinel.
func mapError(op string, err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return fmt.Errorf("firebase %s: %v: %w", op, err, domain.ErrConflict)
	case auth.IsUserNotFound(err):
		return fmt.Errorf("firebase %s: %v: %w", op, err, domain.ErrNotFound)
	default:
		return fmt.Errorf("firebase %s: %w", op, err)
	}
}

// CreateUser registers the account with the provider and returns its UID.
func (f *Firebase) CreateUser(ctx context.Context, u NewUser) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(u.Email).
		Password(u.Password).
		DisplayName(u.DisplayName).
		EmailVerified(false)
	if u.Phone != "" {
		params = params.PhoneNumber(u.Phone)
	}
	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", mapError("create user", err)
	}
	return rec.UID, nil
}

func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		return mapError("delete user", err)
	}
	return nil
}

// EmailVerificationLink asks the provider for a verification link that
// redirects to continueURL once followed. Nothing is mailed by the provider.
func (f *Firebase) EmailVerificationLink(ctx context.Context, email, continueURL string) (string, error) {
	link, err := f.client.EmailVerificationLinkWithSettings(ctx, email, &auth.ActionCodeSettings{URL: continueURL})
	if err != nil {
		return "", mapError("email verification link", err)
	}
	return link, nil
}

// LookupUID returns the provider UID for email, or an ErrNotFound-wrapped error.
func (f *Firebase) LookupUID(ctx context.Context, email string) (string, error) {
	rec, err := f.client.GetUserByEmail(ctx, email)
	if err != nil {
		return "", mapError("lookup user", err)
	}
	return rec.UID, nil
}

// CustomToken mints a token the client can exchange with the provider SDK to sign
// in as uid, e.g. before a client-side phone-auth flow.
func (f *Firebase) CustomToken(ctx context.Context, uid string) (string, error) {
	tok, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", mapError("custom token", err)
	}
	return tok, nil
}

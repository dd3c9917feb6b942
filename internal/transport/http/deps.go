package http

import (
	"context"
	"io"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/identity"
	jwtinfra "github.com/YogeshxSaini/bluestock/internal/infrastructure/jwt"
)

// AccountRepository is the minimal interface the router requires from the account store.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (*domain.Account, error)
	UpdatePhone(ctx context.Context, id, e164 string) (*domain.Account, error)
	MarkEmailVerified(ctx context.Context, id string) (*domain.Account, error)
	MarkMobileVerified(ctx context.Context, id string) (*domain.Account, error)
	ReplacePasswordHash(ctx context.Context, id string, next func(current string) (string, error)) error
}

// CompanyRepository is the minimal interface the router requires from the company store.
type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByOwner(ctx context.Context, ownerID string) (*domain.Company, error)
	Update(ctx context.Context, ownerID string, updates map[string]interface{}) (*domain.Company, error)
}

// VerificationLedger holds pending OTPs and email tokens, one per account and purpose.
type VerificationLedger interface {
	Put(ctx context.Context, v *domain.Verification) error
	Get(ctx context.Context, accountID, purpose string) (*domain.Verification, error)
	Delete(ctx context.Context, accountID, purpose string) error
	Ping(ctx context.Context) error
}

// IdentityProvider is the external account directory mirrored at registration.
type IdentityProvider interface {
	CreateUser(ctx context.Context, u identity.NewUser) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	EmailVerificationLink(ctx context.Context, email, continueURL string) (string, error)
	LookupUID(ctx context.Context, email string) (string, error)
	CustomToken(ctx context.Context, uid string) (string, error)
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MediaRepository catalogs uploaded images.
type MediaRepository interface {
	Put(ctx context.Context, m *domain.Media) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Media, error)
	Supersede(ctx context.Context, mediaID string, at time.Time) error
}

// TokenProvider signs session tokens and verifies them on protected routes.
type TokenProvider interface {
	Sign(userID, email, firebaseUID string) (string, time.Time, error)
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

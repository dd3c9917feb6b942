package identity

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/pkg/id"
)

// Local is an in-process provider for development and tests. It keeps users in
// memory and fabricates links and tokens without any network call.
type Local struct {
	mu    sync.Mutex
	users map[string]string // lower-cased email -> uid
}

func NewLocal() *Local {
	return &Local{users: make(map[string]string)}
}

func (l *Local) CreateUser(_ context.Context, u NewUser) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := l.users[email]; ok {
		return "", fmt.Errorf("local identity: EMAIL_EXISTS: %w", domain.ErrConflict)
	}
	uid := "local-" + id.New()
	l.users[email] = uid
	return uid, nil
}

func (l *Local) DeleteUser(_ context.Context, uid string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for email, u := range l.users {
		if u == uid {
			delete(l.users, email)
			return nil
		}
	}
	return fmt.Errorf("local identity user %s: %w", uid, domain.ErrNotFound)
}

// EmailVerificationLink returns continueURL itself, since there is no provider
// page to pass through.
func (l *Local) EmailVerificationLink(_ context.Context, email, continueURL string) (string, error) {
	if _, err := url.ParseRequestURI(continueURL); err != nil {
		return "", fmt.Errorf("local identity: bad continue url: %w", err)
	}
	return continueURL, nil
}

func (l *Local) LookupUID(_ context.Context, email string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	uid, ok := l.users[strings.ToLower(email)]
	if !ok {
		return "", fmt.Errorf("local identity user %s: %w", email, domain.ErrNotFound)
	}
	return uid, nil
}

func (l *Local) CustomToken(_ context.Context, uid string) (string, error) {
	return "local-custom-token:" + uid, nil
}

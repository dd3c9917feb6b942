package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/YogeshxSaini/bluestock/internal/config"
	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type toolkitHandler func(body map[string]interface{}) (int, interface{})

// fakeEmulator stands in for the Auth emulator. Handlers are keyed by the last
// path segment, e.g. "accounts" or "accounts:lookup".
func fakeEmulator(t *testing.T, handlers map[string]toolkitHandler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		h, ok := handlers[seg]
		if !ok {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		status, resp := h(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("FIREBASE_AUTH_EMULATOR_HOST", strings.TrimPrefix(srv.URL, "http://"))
	return srv
}

func toolkitError(code string) (int, interface{}) {
	return http.StatusBadRequest, map[string]interface{}{
		"error": map[string]interface{}{"code": 400, "message": code},
	}
}

func testKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func newEmulatedFirebase(t *testing.T) *Firebase {
	t.Helper()
	f, err := NewFirebase(context.Background(), &config.Config{
		FirebaseProjectID:   "demo",
		FirebaseClientEmail: "svc@demo.iam.gserviceaccount.com",
		FirebasePrivateKey:  testKeyPEM(t),
	})
	require.NoError(t, err)
	return f
}

func TestFirebase_CreateUser(t *testing.T) {
	fakeEmulator(t, map[string]toolkitHandler{
		"accounts": func(body map[string]interface{}) (int, interface{}) {
			assert.Equal(t, "user@example.com", body["email"])
			assert.Equal(t, "TestPass123!", body["password"])
			assert.Equal(t, "Test User", body["displayName"])
			assert.Equal(t, "+14155552671", body["phoneNumber"])
			assert.Equal(t, false, body["emailVerified"])
			return http.StatusOK, map[string]string{"localId": "fb-uid-1"}
		},
		"accounts:lookup": func(map[string]interface{}) (int, interface{}) {
			return http.StatusOK, map[string]interface{}{
				"users": []map[string]string{{"localId": "fb-uid-1", "email": "user@example.com"}},
			}
		},
	})

	uid, err := newEmulatedFirebase(t).CreateUser(context.Background(), NewUser{
		Email: "user@example.com", Password: "TestPass123!", DisplayName: "Test User", Phone: "+14155552671",
	})
	require.NoError(t, err)
	assert.Equal(t, "fb-uid-1", uid)
}

func TestFirebase_CreateUser_EmailExists(t *testing.T) {
	fakeEmulator(t, map[string]toolkitHandler{
		"accounts": func(map[string]interface{}) (int, interface{}) { return toolkitError("EMAIL_EXISTS") },
	})

	_, err := newEmulatedFirebase(t).CreateUser(context.Background(), NewUser{Email: "dup@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestFirebase_CreateUser_PhoneExistsIsNotConflict(t *testing.T) {
	fakeEmulator(t, map[string]toolkitHandler{
		"accounts": func(map[string]interface{}) (int, interface{}) { return toolkitError("PHONE_NUMBER_EXISTS") },
	})

	_, err := newEmulatedFirebase(t).CreateUser(context.Background(), NewUser{
		Email: "new@example.com", Password: "x", Phone: "+14155552671",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestFirebase_EmailVerificationLink(t *testing.T) {
	fakeEmulator(t, map[string]toolkitHandler{
		"accounts:sendOobCode": func(body map[string]interface{}) (int, interface{}) {
			assert.Equal(t, "VERIFY_EMAIL", body["requestType"])
			assert.Equal(t, "user@example.com", body["email"])
			assert.Equal(t, "https://app.example.com/verified", body["continueUrl"])
			assert.Equal(t, true, body["returnOobLink"])
			return http.StatusOK, map[string]string{"oobLink": "https://example.firebaseapp.com/__/auth/action?oobCode=abc"}
		},
	})

	link, err := newEmulatedFirebase(t).EmailVerificationLink(context.Background(), "user@example.com", "https://app.example.com/verified")
	require.NoError(t, err)
	assert.Contains(t, link, "oobCode=abc")
}

func TestFirebase_LookupUID(t *testing.T) {
	fakeEmulator(t, map[string]toolkitHandler{
		"accounts:lookup": func(body map[string]interface{}) (int, interface{}) {
			emails, _ := body["email"].([]interface{})
			if len(emails) == 1 && emails[0] == "user@example.com" {
				return http.StatusOK, map[string]interface{}{
					"users": []map[string]string{{"localId": "fb-uid-1", "email": "user@example.com"}},
				}
			}
			return http.StatusOK, map[string]interface{}{}
		},
	})
	f := newEmulatedFirebase(t)

	uid, err := f.LookupUID(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid-1", uid)

	_, err = f.LookupUID(context.Background(), "ghost@example.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFirebase_DeleteUser_NotFound(t *testing.T) {
	fakeEmulator(t, map[string]toolkitHandler{
		"accounts:delete": func(body map[string]interface{}) (int, interface{}) {
			assert.Equal(t, "fb-uid-9", body["localId"])
			return toolkitError("USER_NOT_FOUND")
		},
	})

	err := newEmulatedFirebase(t).DeleteUser(context.Background(), "fb-uid-9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

type mockAuthClient struct {
	mock.Mock
}

func (m *mockAuthClient) CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	args := m.Called(ctx, user)
	rec, _ := args.Get(0).(*auth.UserRecord)
	return rec, args.Error(1)
}

func (m *mockAuthClient) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *mockAuthClient) EmailVerificationLinkWithSettings(ctx context.Context, email string, settings *auth.ActionCodeSettings) (string, error) {
	args := m.Called(ctx, email, settings)
	return args.String(0), args.Error(1)
}

func (m *mockAuthClient) GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	args := m.Called(ctx, email)
	rec, _ := args.Get(0).(*auth.UserRecord)
	return rec, args.Error(1)
}

func (m *mockAuthClient) CustomToken(ctx context.Context, uid string) (string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.Error(1)
}

func TestFirebase_CustomToken(t *testing.T) {
	client := new(mockAuthClient)
	client.On("CustomToken", mock.Anything, "fb-uid-1").Return("signed.custom.token", nil)

	tok, err := (&Firebase{client: client}).CustomToken(context.Background(), "fb-uid-1")
	require.NoError(t, err)
	assert.Equal(t, "signed.custom.token", tok)
	client.AssertExpectations(t)
}

func TestFirebase_UntypedErrorKeepsMessage(t *testing.T) {
	client := new(mockAuthClient)
	client.On("CustomToken", mock.Anything, "fb-uid-1").Return("", errors.New("signing key unavailable"))

	_, err := (&Firebase{client: client}).CustomToken(context.Background(), "fb-uid-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing key unavailable")
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YogeshxSaini/bluestock/internal/application/auth"
	"github.com/YogeshxSaini/bluestock/internal/application/company"
	"github.com/YogeshxSaini/bluestock/internal/application/media"
	"github.com/YogeshxSaini/bluestock/internal/domain"
	jwtinfra "github.com/YogeshxSaini/bluestock/internal/infrastructure/jwt"
	"github.com/YogeshxSaini/bluestock/internal/transport/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Register(ctx context.Context, req domain.RegisterRequest) (*auth.RegisterResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.RegisterResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Login(ctx context.Context, req domain.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) VerifyEmail(ctx context.Context, userID, token string) (*domain.Account, error) {
	args := m.Called(ctx, userID, token)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) ResendVerification(ctx context.Context, userID string) (*auth.ResendResult, error) {
	args := m.Called(ctx, userID)
	if r, _ := args.Get(0).(*auth.ResendResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) SendOTP(ctx context.Context, req domain.SendOTPRequest) (*auth.OTPResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.OTPResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) VerifyMobile(ctx context.Context, req domain.VerifyMobileRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAccountSvc struct{ mock.Mock }

func (m *mockAccountSvc) Get(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountSvc) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountSvc) UpdatePhone(ctx context.Context, userID string, req domain.UpdatePhoneRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountSvc) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type mockCompanySvc struct{ mock.Mock }

func (m *mockCompanySvc) Register(ctx context.Context, ownerID string, req domain.RegisterCompanyRequest) (*domain.Company, error) {
	args := m.Called(ctx, ownerID, req)
	if c, _ := args.Get(0).(*domain.Company); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCompanySvc) Get(ctx context.Context, ownerID string) (*domain.Company, error) {
	args := m.Called(ctx, ownerID)
	if c, _ := args.Get(0).(*domain.Company); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCompanySvc) Update(ctx context.Context, ownerID string, req domain.UpdateCompanyRequest) (*domain.Company, error) {
	args := m.Called(ctx, ownerID, req)
	if c, _ := args.Get(0).(*domain.Company); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCompanySvc) UploadImage(ctx context.Context, input media.UploadInput) (*company.ImageResult, error) {
	args := m.Called(ctx, input)
	if r, _ := args.Get(0).(*company.ImageResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCompanySvc) ListMedia(ctx context.Context, ownerID string) ([]domain.Media, error) {
	args := m.Called(ctx, ownerID)
	items, _ := args.Get(0).([]domain.Media)
	return items, args.Error(1)
}

// --- helpers ---

// asUser attaches claims for userID the way the Auth middleware does.
func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), &jwtinfra.Claims{UserID: userID}))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

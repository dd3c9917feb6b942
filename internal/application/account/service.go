package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/pkg/password"
	"github.com/YogeshxSaini/bluestock/internal/pkg/phone"
	"github.com/YogeshxSaini/bluestock/internal/pkg/validate"
)

// Column names accepted in profile update maps.
const (
	fieldFullName = "full_name"
	fieldGender   = "gender"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.Account, error)
	UpdatePhone(ctx context.Context, userID string, req domain.UpdatePhoneRequest) (*domain.Account, error)
	ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error
}

type accountStore interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (*domain.Account, error)
	UpdatePhone(ctx context.Context, id, e164 string) (*domain.Account, error)
	ReplacePasswordHash(ctx context.Context, id string, next func(current string) (string, error)) error
}

type pendingCodes interface {
	Delete(ctx context.Context, accountID, purpose string) error
}

type service struct {
	repo       accountStore
	ledger     pendingCodes
	bcryptCost int
}

type ServiceDeps struct {
	Accounts   accountStore
	Ledger     pendingCodes
	BcryptCost int
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Accounts, ledger: deps.Ledger, bcryptCost: deps.BcryptCost}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.Account, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.Account, error) {
	if details := validate.Struct(req); len(details) > 0 {
		return nil, domain.NewValidationError("validation failed", details...)
	}
	updates := map[string]interface{}{}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, domain.NewValidationError("validation failed", "full_name must not be blank")
		}
		updates[fieldFullName] = name
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if len(updates) == 0 {
		return nil, domain.NewValidationError("no valid fields to update")
	}
	return s.repo.UpdateProfile(ctx, userID, updates)
}

// UpdatePhone stores the normalized number and clears the mobile flag; a code sent
// to the previous number can no longer be used.
func (s *service) UpdatePhone(ctx context.Context, userID string, req domain.UpdatePhoneRequest) (*domain.Account, error) {
	e164, err := phone.Normalize(req.MobileNo)
	if err != nil {
		return nil, domain.NewValidationError("validation failed", err.Error())
	}
	acc, err := s.repo.UpdatePhone(ctx, userID, e164)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Delete(ctx, userID, domain.PurposeMobile); err != nil {
		slog.Warn("failed to discard pending otp", "user_id", userID, "err", err)
	}
	return acc, nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	if details := validate.Struct(req); len(details) > 0 {
		return domain.NewValidationError("validation failed", details...)
	}
	if v := password.Violations(req.NewPassword); len(v) > 0 {
		return domain.NewValidationError("password does not meet requirements", v...)
	}
	return s.repo.ReplacePasswordHash(ctx, userID, func(current string) (string, error) {
		if !password.Matches(current, req.CurrentPassword) {
			return "", fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
		}
		return password.Hash(req.NewPassword, s.bcryptCost)
	})
}

package company

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/application/media"
	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/YogeshxSaini/bluestock/internal/pkg/id"
	"github.com/YogeshxSaini/bluestock/internal/pkg/sanitize"
	"github.com/YogeshxSaini/bluestock/internal/pkg/validate"
)

// ImageResult is the profile after an upload together with the stored image.
type ImageResult struct {
	Company *domain.Company `json:"company"`
	Media   *domain.Media   `json:"media"`
}

type Service interface {
	Register(ctx context.Context, ownerID string, req domain.RegisterCompanyRequest) (*domain.Company, error)
	Get(ctx context.Context, ownerID string) (*domain.Company, error)
	Update(ctx context.Context, ownerID string, req domain.UpdateCompanyRequest) (*domain.Company, error)
	UploadImage(ctx context.Context, input media.UploadInput) (*ImageResult, error)
	ListMedia(ctx context.Context, ownerID string) ([]domain.Media, error)
}

type companyStore interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByOwner(ctx context.Context, ownerID string) (*domain.Company, error)
	Update(ctx context.Context, ownerID string, updates map[string]interface{}) (*domain.Company, error)
}

type service struct {
	repo  companyStore
	media media.Service
}

func NewService(repo companyStore, mediaSvc media.Service) Service {
	return &service{repo: repo, media: mediaSvc}
}

func (s *service) Register(ctx context.Context, ownerID string, req domain.RegisterCompanyRequest) (*domain.Company, error) {
	details := validate.Struct(req)
	website, d := optionalURL("website", req.Website)
	details = append(details, d...)
	founded, d := optionalDate(req.FoundedDate)
	details = append(details, d...)
	details = append(details, checkLinks(req.SocialLinks)...)
	if len(details) > 0 {
		return nil, domain.NewValidationError("validation failed", details...)
	}

	if _, err := s.repo.GetByOwner(ctx, ownerID); err == nil {
		return nil, fmt.Errorf("company profile already exists for this user: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Company{
		ID:          id.New(),
		OwnerID:     ownerID,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		Country:     strings.TrimSpace(req.Country),
		PostalCode:  strings.TrimSpace(req.PostalCode),
		Website:     website,
		Industry:    strings.TrimSpace(req.Industry),
		FoundedDate: founded,
		Description: cleanDescription(req.Description),
		SocialLinks: req.SocialLinks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, ownerID string) (*domain.Company, error) {
	c, err := s.repo.GetByOwner(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("company profile not found: %w", domain.ErrNotFound)
	}
	return c, err
}

func (s *service) Update(ctx context.Context, ownerID string, req domain.UpdateCompanyRequest) (*domain.Company, error) {
	details := validate.Struct(req)
	updates := map[string]interface{}{}

	required := map[string]*string{
		"company_name": req.CompanyName,
		"address":      req.Address,
		"city":         req.City,
		"state":        req.State,
		"country":      req.Country,
		"postal_code":  req.PostalCode,
		"industry":     req.Industry,
	}
	for _, col := range sortedKeys(required) {
		v := required[col]
		if v == nil {
			continue
		}
		if strings.TrimSpace(*v) == "" {
			details = append(details, col+" must not be empty")
			continue
		}
		updates[col] = strings.TrimSpace(*v)
	}

	if req.Website != nil {
		website, d := optionalURL("website", req.Website)
		details = append(details, d...)
		updates["website"] = nullable(website)
	}
	if req.FoundedDate != nil {
		founded, d := optionalDate(req.FoundedDate)
		details = append(details, d...)
		if founded == nil {
			updates["founded_date"] = nil
		} else {
			updates["founded_date"] = *founded
		}
	}
	if req.Description != nil {
		updates["description"] = nullable(cleanDescription(req.Description))
	}
	if req.SocialLinks != nil {
		details = append(details, checkLinks(req.SocialLinks)...)
		updates["social_links"] = req.SocialLinks
	}

	if len(details) > 0 {
		return nil, domain.NewValidationError("validation failed", details...)
	}
	if len(updates) == 0 {
		return nil, domain.NewValidationError("no valid fields to update")
	}
	c, err := s.repo.Update(ctx, ownerID, updates)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("company profile not found: %w", domain.ErrNotFound)
	}
	return c, err
}

// UploadImage stores a logo or banner and points the profile at it. The profile
// must exist before any image is accepted.
func (s *service) UploadImage(ctx context.Context, input media.UploadInput) (*ImageResult, error) {
	if _, err := s.Get(ctx, input.OwnerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("company profile not found, register the company first: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	m, err := s.media.Upload(ctx, input)
	if err != nil {
		return nil, err
	}
	column := "logo_url"
	if input.Kind == domain.MediaBanner {
		column = "banner_url"
	}
	c, err := s.repo.Update(ctx, input.OwnerID, map[string]interface{}{column: m.URL})
	if err != nil {
		return nil, err
	}
	return &ImageResult{Company: c, Media: m}, nil
}

func (s *service) ListMedia(ctx context.Context, ownerID string) ([]domain.Media, error) {
	return s.media.ListByOwner(ctx, ownerID)
}

// optionalURL returns nil for an absent or blank value.
func optionalURL(field string, v *string) (*string, []string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	u := strings.TrimSpace(*v)
	if !sanitize.IsHTTPURL(u) {
		return nil, []string{field + " must be a valid http or https URL"}
	}
	return &u, nil
}

// optionalDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func optionalDate(v *string) (*time.Time, []string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	s := strings.TrimSpace(*v)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, []string{"founded_date must be a valid ISO 8601 date"}
}

func checkLinks(links map[string]string) []string {
	var out []string
	for _, k := range sortedKeys(links) {
		if strings.TrimSpace(k) == "" {
			out = append(out, "social_links keys must not be empty")
			continue
		}
		if !sanitize.IsHTTPURL(links[k]) {
			out = append(out, fmt.Sprintf("social_links.%s must be a valid http or https URL", k))
		}
	}
	return out
}

func cleanDescription(v *string) *string {
	if v == nil {
		return nil
	}
	text := sanitize.Text(*v)
	if text == "" {
		return nil
	}
	return &text
}

// nullable turns a nil pointer into an untyped nil so the column is set to NULL.
func nullable(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

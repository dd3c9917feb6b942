package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyColumns = `id, owner_id, company_name, address, city, state, country, postal_code,
	website, industry, founded_date, description, social_links, logo_url, banner_url, created_at, updated_at`

var companyUpdatableColumns = map[string]bool{
	"company_name": true,
	"address":      true,
	"city":         true,
	"state":        true,
	"country":      true,
	"postal_code":  true,
	"website":      true,
	"industry":     true,
	"founded_date": true,
	"description":  true,
	"social_links": true,
	"logo_url":     true,
	"banner_url":   true,
}

// CompanyRepo stores company profiles, one per owner account.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var (
		c     domain.Company
		links []byte
	)
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.CompanyName, &c.Address, &c.City, &c.State, &c.Country, &c.PostalCode,
		&c.Website, &c.Industry, &c.FoundedDate, &c.Description, &links, &c.LogoURL, &c.BannerURL,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "company profile")
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &c.SocialLinks); err != nil {
			return nil, fmt.Errorf("decode social_links: %w", err)
		}
	}
	return &c, nil
}

// encodeLinks returns nil for an empty map so the column stays NULL.
func encodeLinks(links map[string]string) ([]byte, error) {
	if len(links) == 0 {
		return nil, nil
	}
	return json.Marshal(links)
}

func (r *CompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	links, err := encodeLinks(c.SocialLinks)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO company_profile (id, owner_id, company_name, address, city, state, country, postal_code,
			website, industry, founded_date, description, social_links, logo_url, banner_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		c.ID, c.OwnerID, c.CompanyName, c.Address, c.City, c.State, c.Country, c.PostalCode,
		c.Website, c.Industry, c.FoundedDate, c.Description, links, c.LogoURL, c.BannerURL,
		c.CreatedAt, c.UpdatedAt,
	)
	return mapError(err, "company profile")
}

func (r *CompanyRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.Company, error) {
	return scanCompany(r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM company_profile WHERE owner_id = $1`, ownerID))
}

// Update applies a whitelisted partial update to the owner's profile.
// A social_links value must be a map[string]string.
func (r *CompanyRepo) Update(ctx context.Context, ownerID string, updates map[string]interface{}) (*domain.Company, error) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if !companyUpdatableColumns[k] {
			return nil, fmt.Errorf("column %q is not updatable: %w", k, domain.ErrValidation)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, domain.NewValidationError("no valid fields to update")
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+1)
	for i, k := range keys {
		v := updates[k]
		if k == "social_links" {
			links, ok := v.(map[string]string)
			if !ok {
				return nil, fmt.Errorf("social_links must be a map: %w", domain.ErrValidation)
			}
			b, err := encodeLinks(links)
			if err != nil {
				return nil, err
			}
			v = b
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, v)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, ownerID)

	sql := fmt.Sprintf(`UPDATE company_profile SET %s WHERE owner_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), companyColumns)
	return scanCompany(r.pool.QueryRow(ctx, sql, args...))
}

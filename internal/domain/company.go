package domain

import "time"

type Company struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"owner_id"`
	CompanyName string            `json:"company_name"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Country     string            `json:"country"`
	PostalCode  string            `json:"postal_code"`
	Website     *string           `json:"website"`
	Industry    string            `json:"industry"`
	FoundedDate *time.Time        `json:"founded_date"`
	Description *string           `json:"description"`
	SocialLinks map[string]string `json:"social_links"`
	LogoURL     *string           `json:"logo_url"`
	BannerURL   *string           `json:"banner_url"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type RegisterCompanyRequest struct {
	CompanyName string            `json:"company_name" validate:"required,max=255"`
	Address     string            `json:"address" validate:"required"`
	City        string            `json:"city" validate:"required,max=100"`
	State       string            `json:"state" validate:"required,max=100"`
	Country     string            `json:"country" validate:"required,max=100"`
	PostalCode  string            `json:"postal_code" validate:"required,max=20"`
	Website     *string           `json:"website"`
	Industry    string            `json:"industry" validate:"required,max=100"`
	FoundedDate *string           `json:"founded_date"`
	Description *string           `json:"description"`
	SocialLinks map[string]string `json:"social_links"`
}

// UpdateCompanyRequest is a partial update; nil fields are left untouched.
type UpdateCompanyRequest struct {
	CompanyName *string           `json:"company_name" validate:"omitempty,max=255"`
	Address     *string           `json:"address"`
	City        *string           `json:"city" validate:"omitempty,max=100"`
	State       *string           `json:"state" validate:"omitempty,max=100"`
	Country     *string           `json:"country" validate:"omitempty,max=100"`
	PostalCode  *string           `json:"postal_code" validate:"omitempty,max=20"`
	Website     *string           `json:"website"`
	Industry    *string           `json:"industry" validate:"omitempty,max=100"`
	FoundedDate *string           `json:"founded_date"`
	Description *string           `json:"description"`
	SocialLinks map[string]string `json:"social_links"`
}

package company

import "time"

type Company struct {
	ID        string
	Name      string
	Slug      string
	Email     *string
	Phone     *string
	Address   *string
	LogoURL   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package company

import (
	"context"
	"time"
)

type Company struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ManagerID int64     `json:"manager_id,string,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists airline companies.
type Store interface {
	// CreateCompany stores c. A non-zero ManagerID must name an existing user,
	// who is promoted to role company atomically with the insert.
	CreateCompany(ctx context.Context, c *Company) error
	GetCompany(ctx context.Context, id int64) (*Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
	SetCompanyActive(ctx context.Context, id int64, active bool) error
	// AssignManager makes userID the company's manager with role company and
	// downgrades the previous manager to role user, in one atomic step.
	AssignManager(ctx context.Context, companyID, userID int64) error
}

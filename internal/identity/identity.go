package identity

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// Identity is the request-scoped fact the core consumes. The zero value is anonymous.
type Identity struct {
	UserID  int64
	Role    Role
	Blocked bool
}

func (i Identity) Authenticated() bool { return i.UserID != 0 }

func (i Identity) IsBlocked() bool { return i.Blocked }

// CanBook reports whether the caller may create or cancel bookings.
func (i Identity) CanBook() bool { return i.Authenticated() && !i.Blocked }

func (i Identity) IsAdmin() bool { return i.CanBook() && i.Role == RoleAdmin }

type User struct {
	ID        int64     `json:"id,string"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role, Blocked: u.Blocked}
}

// Store persists users. Missing users yield an apperr NOT_FOUND.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserBlocked(ctx context.Context, id int64, blocked bool) error
	// SetUserRole refuses with INVALID_STATE to make a company's manager a plain user.
	SetUserRole(ctx context.Context, id int64, role Role) error
}

package postgres

import (
	"airbook/internal/apperr"
	"airbook/internal/identity"
	"airbook/pkg/db"
	"context"
	"database/sql"
	"errors"
)

const (
	userColumns = `id, email, name, role, blocked, created_at`

	insertUserQuery     = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	selectUserQuery     = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	listUsersQuery      = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	setUserBlockedQuery = `UPDATE users SET blocked = $2 WHERE id = $1`
	setUserRoleQuery    = `UPDATE users SET role = $2 WHERE id = $1`
	lockUserQuery       = `SELECT role FROM users WHERE id = $1 FOR UPDATE`
	managedCompanyQuery = `SELECT code FROM companies WHERE manager_id = $1 LIMIT 1`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*identity.User, error) {
	var u identity.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Blocked, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	_, err := s.db.ExecContext(ctx, insertUserQuery, u.ID, u.Email, u.Name, string(u.Role), u.Blocked, u.CreatedAt)
	if db.IsUniqueViolation(err, "users_email_key") {
		return apperr.InvalidRequest("email %q already registered", u.Email)
	}
	return mapErr(err, "create user")
}

func (s *Store) GetUser(ctx context.Context, id int64) (*identity.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, selectUserQuery, id))
	if err != nil {
		return nil, notFoundOr(err, "get user", "user", id)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]identity.User, error) {
	rows, err := s.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, mapErr(err, "list users")
	}
	defer rows.Close()

	var out []identity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr(err, "scan user")
		}
		out = append(out, *u)
	}
	return out, mapErr(rows.Err(), "list users")
}

func (s *Store) SetUserBlocked(ctx context.Context, id int64, blocked bool) error {
	res, err := s.db.ExecContext(ctx, setUserBlockedQuery, id, blocked)
	if err != nil {
		return mapErr(err, "set user blocked")
	}
	return expectOne(res, "set user blocked", "user", id)
}

func (s *Store) SetUserRole(ctx context.Context, id int64, role identity.Role) error {
	err := s.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		var current string
		if err := tx.QueryRowContext(ctx, lockUserQuery, id).Scan(&current); err != nil {
			return notFoundOr(err, "set user role", "user", id)
		}

		if role == identity.RoleUser {
			if err := refuseManagerDemotion(ctx, tx, id); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, setUserRoleQuery, id, string(role))
		return err
	})
	return mapErr(err, "set user role")
}

func refuseManagerDemotion(ctx context.Context, q db.Querier, id int64) error {
	var code string
	err := q.QueryRowContext(ctx, managedCompanyQuery, id).Scan(&code)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	}
	return apperr.Newf(apperr.CodeInvalidState, "user %d manages company %s; assign another manager first", id, code)
}

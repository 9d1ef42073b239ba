package postgres

import (
	"airbook/internal/apperr"
	"airbook/internal/company"
	"airbook/pkg/db"
	"context"
	"database/sql"
	"errors"
)

const (
	companyColumns = `id, name, code, manager_id, active, created_at`

	insertCompanyQuery    = `INSERT INTO companies (` + companyColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	selectCompanyQuery    = `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	listCompaniesQuery    = `SELECT ` + companyColumns + ` FROM companies ORDER BY name`
	setCompanyActiveQuery = `UPDATE companies SET active = $2 WHERE id = $1`

	lockCompanyManagerQuery = `SELECT manager_id FROM companies WHERE id = $1 FOR UPDATE`
	promoteManagerQuery     = `UPDATE users SET role = CASE WHEN role = 'admin' THEN role ELSE 'company' END WHERE id = $1`
	demoteManagerQuery      = `UPDATE users SET role = 'user' WHERE id = $1 AND role = 'company'`
	setCompanyManagerQuery  = `UPDATE companies SET manager_id = $2 WHERE id = $1`
)

func scanCompany(row rowScanner) (*company.Company, error) {
	var (
		c         company.Company
		managerID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &managerID, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ManagerID = managerID.Int64
	return &c, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreateCompany inserts c; a non-zero ManagerID is promoted in the same transaction.
func (s *Store) CreateCompany(ctx context.Context, c *company.Company) error {
	if c.ManagerID == 0 {
		return s.insertCompany(ctx, s.db, c)
	}

	err := s.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, promoteManagerQuery, c.ManagerID)
		if err != nil {
			return err
		}
		if err := expectOne(res, "promote manager", "user", c.ManagerID); err != nil {
			return err
		}
		return s.insertCompany(ctx, tx, c)
	})
	return mapErr(err, "create company")
}

func (s *Store) insertCompany(ctx context.Context, q db.Querier, c *company.Company) error {
	_, err := q.ExecContext(ctx, insertCompanyQuery, c.ID, c.Name, c.Code, nullID(c.ManagerID), c.Active, c.CreatedAt)
	if db.IsUniqueViolation(err, "companies_code_key") {
		return apperr.InvalidRequest("company code %q already in use", c.Code)
	}
	return mapErr(err, "create company")
}

func (s *Store) GetCompany(ctx context.Context, id int64) (*company.Company, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx, selectCompanyQuery, id))
	if err != nil {
		return nil, notFoundOr(err, "get company", "company", id)
	}
	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]company.Company, error) {
	rows, err := s.db.QueryContext(ctx, listCompaniesQuery)
	if err != nil {
		return nil, mapErr(err, "list companies")
	}
	defer rows.Close()

	var out []company.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, mapErr(err, "scan company")
		}
		out = append(out, *c)
	}
	return out, mapErr(rows.Err(), "list companies")
}

func (s *Store) SetCompanyActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, setCompanyActiveQuery, id, active)
	if err != nil {
		return mapErr(err, "set company active")
	}
	return expectOne(res, "set company active", "company", id)
}

func (s *Store) AssignManager(ctx context.Context, companyID, userID int64) error {
	err := s.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		var prev sql.NullInt64
		if err := tx.QueryRowContext(ctx, lockCompanyManagerQuery, companyID).Scan(&prev); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("company %d not found", companyID)
			}
			return err
		}

		res, err := tx.ExecContext(ctx, promoteManagerQuery, userID)
		if err != nil {
			return err
		}
		if err := expectOne(res, "promote manager", "user", userID); err != nil {
			return err
		}

		if prev.Valid && prev.Int64 != userID {
			if _, err := tx.ExecContext(ctx, demoteManagerQuery, prev.Int64); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, setCompanyManagerQuery, companyID, userID)
		return err
	})
	return mapErr(err, "assign manager")
}

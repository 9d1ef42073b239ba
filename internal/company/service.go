package company

import (
	"airbook/internal/apperr"
	"airbook/internal/identity"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"context"
	"regexp"
	"strings"
	"time"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

type Service struct {
	store  Store
	ids    idgen.Generator
	logger logger.Logger
	now    func() time.Time
}

func NewService(store Store, ids idgen.Generator, log logger.Logger) *Service {
	return &Service{store: store, ids: ids, logger: log, now: time.Now}
}

type CreateInput struct {
	Name      string `json:"name" yaml:"name" binding:"required"`
	Code      string `json:"code" yaml:"code" binding:"required"`
	ManagerID int64  `json:"manager_id,string,omitempty" yaml:"-"`
}

func (s *Service) Create(ctx context.Context, actor identity.Identity, in CreateInput) (*Company, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if name == "" {
		return nil, apperr.InvalidRequest("company name is required")
	}
	if !codePattern.MatchString(code) {
		return nil, apperr.InvalidRequest("company code must be 2-3 letters or digits, got %q", in.Code)
	}

	c := &Company{
		ID:        s.ids.GenerateID(),
		Name:      name,
		Code:      code,
		ManagerID: in.ManagerID,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateCompany(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("company created",
		logger.Field{Key: "company_id", Value: c.ID},
		logger.Field{Key: "code", Value: c.Code},
	)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Company, error) {
	return s.store.GetCompany(ctx, id)
}

func (s *Service) List(ctx context.Context, actor identity.Identity) ([]Company, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	return s.store.ListCompanies(ctx)
}

func (s *Service) SetActive(ctx context.Context, actor identity.Identity, id int64, active bool) (*Company, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	if err := s.store.SetCompanyActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.store.GetCompany(ctx, id)
}

func (s *Service) AssignManager(ctx context.Context, actor identity.Identity, companyID, userID int64) (*Company, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	if err := s.store.AssignManager(ctx, companyID, userID); err != nil {
		return nil, err
	}

	s.logger.Info("company manager assigned",
		logger.Field{Key: "company_id", Value: companyID},
		logger.Field{Key: "user_id", Value: userID},
	)
	return s.store.GetCompany(ctx, companyID)
}

// Authorize returns the company when actor is an admin or its unblocked manager.
func (s *Service) Authorize(ctx context.Context, actor identity.Identity, companyID int64) (*Company, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	if actor.Blocked {
		return nil, apperr.New(apperr.CodeUnauthorized, "account is blocked")
	}

	c, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleAdmin {
		return c, nil
	}
	if actor.Role != identity.RoleCompany || c.ManagerID != actor.UserID {
		return nil, apperr.ErrForbidden
	}
	return c, nil
}

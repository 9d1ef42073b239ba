package identity

import (
	"airbook/internal/apperr"
	"airbook/pkg/idgen"
	"airbook/pkg/logger"
	"context"
	"net/mail"
	"strings"
	"time"
)

type Service struct {
	store  Store
	ids    idgen.Generator
	logger logger.Logger
	now    func() time.Time
}

func NewService(store Store, ids idgen.Generator, log logger.Logger) *Service {
	return &Service{store: store, ids: ids, logger: log, now: time.Now}
}

// Resolve loads the current role and blocked flag for an authenticated subject.
func (s *Service) Resolve(ctx context.Context, userID int64) (Identity, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return Identity{}, apperr.New(apperr.CodeUnauthorized, "unknown user")
		}
		return Identity{}, err
	}
	return u.Identity(), nil
}

type CreateUserInput struct {
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
	Role  Role   `json:"role" yaml:"role"`
}

func (s *Service) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperr.InvalidRequest("invalid email %q", in.Email)
	}
	if in.Role == "" {
		in.Role = RoleUser
	}
	if !in.Role.Valid() {
		return nil, apperr.InvalidRequest("invalid role %q", in.Role)
	}

	u := &User{
		ID:        s.ids.GenerateID(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Name:      strings.TrimSpace(in.Name),
		Role:      in.Role,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get returns any user to an admin.
func (s *Service) Get(ctx context.Context, actor Identity, userID int64) (*User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	return s.store.GetUser(ctx, userID)
}

// Me returns the caller's own record, blocked or not.
func (s *Service) Me(ctx context.Context, actor Identity) (*User, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	return s.store.GetUser(ctx, actor.UserID)
}

func (s *Service) List(ctx context.Context, actor Identity) ([]User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	return s.store.ListUsers(ctx)
}

func (s *Service) SetBlocked(ctx context.Context, actor Identity, userID int64, blocked bool) (*User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	if actor.UserID == userID && blocked {
		return nil, apperr.InvalidRequest("admins cannot block themselves")
	}
	if err := s.store.SetUserBlocked(ctx, userID, blocked); err != nil {
		return nil, err
	}

	s.logger.Info("user block flag changed",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "blocked", Value: blocked},
		logger.Field{Key: "actor_id", Value: actor.UserID},
	)
	return s.store.GetUser(ctx, userID)
}

func (s *Service) SetRole(ctx context.Context, actor Identity, userID int64, role Role) (*User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	if !role.Valid() {
		return nil, apperr.InvalidRequest("invalid role %q", role)
	}
	if actor.UserID == userID && role != RoleAdmin {
		return nil, apperr.New(apperr.CodeInvalidState, "admins cannot demote themselves")
	}
	if err := s.store.SetUserRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "role", Value: string(role)},
		logger.Field{Key: "actor_id", Value: actor.UserID},
	)
	return s.store.GetUser(ctx, userID)
}

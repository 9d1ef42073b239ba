package memory

import (
	"airbook/internal/apperr"
	"airbook/internal/identity"
	"context"
	"sort"
)

func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return apperr.InvalidRequest("email %q already registered", u.Email)
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]identity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetUserBlocked(ctx context.Context, id int64, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound("user %d not found", id)
	}
	u.Blocked = blocked
	s.users[id] = u
	return nil
}

func (s *Store) SetUserRole(ctx context.Context, id int64, role identity.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound("user %d not found", id)
	}
	if role == identity.RoleUser {
		for _, c := range s.companies {
			if c.ManagerID == id {
				return apperr.Newf(apperr.CodeInvalidState, "user %d manages company %s; assign another manager first", id, c.Code)
			}
		}
	}
	u.Role = role
	s.users[id] = u
	return nil
}

package memory

import (
	"airbook/internal/apperr"
	"airbook/internal/company"
	"airbook/internal/identity"
	"context"
	"sort"
)

func (s *Store) CreateCompany(ctx context.Context, c *company.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.companies {
		if existing.Code == c.Code {
			return apperr.InvalidRequest("company code %q already in use", c.Code)
		}
	}
	if c.ManagerID != 0 {
		u, ok := s.users[c.ManagerID]
		if !ok {
			return apperr.NotFound("user %d not found", c.ManagerID)
		}
		if u.Role != identity.RoleAdmin {
			u.Role = identity.RoleCompany
			s.users[u.ID] = u
		}
	}
	s.companies[c.ID] = *c
	return nil
}

func (s *Store) GetCompany(ctx context.Context, id int64) (*company.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, apperr.NotFound("company %d not found", id)
	}
	return &c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]company.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]company.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SetCompanyActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[id]
	if !ok {
		return apperr.NotFound("company %d not found", id)
	}
	c.Active = active
	s.companies[id] = c
	return nil
}

func (s *Store) AssignManager(ctx context.Context, companyID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[companyID]
	if !ok {
		return apperr.NotFound("company %d not found", companyID)
	}
	u, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("user %d not found", userID)
	}

	if prev, ok := s.users[c.ManagerID]; ok && prev.ID != userID && prev.Role == identity.RoleCompany {
		prev.Role = identity.RoleUser
		s.users[prev.ID] = prev
	}
	if u.Role != identity.RoleAdmin {
		u.Role = identity.RoleCompany
		s.users[userID] = u
	}
	c.ManagerID = userID
	s.companies[companyID] = c
	return nil
}

package employee

import (
	"context"
	"strings"

	"timesheet/internal/domain/auth"
)

const minPasswordLength = 8

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, includeHidden bool) ([]Profile, error) {
	return s.store.List(ctx, includeHidden)
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.store.Get(ctx, id)
}

// Create registers an employee with a bcrypt-hashed initial password.
// Only super users may create accounts above the employee role.
func (s *Service) Create(ctx context.Context, actor auth.UserContext, in CreateInput) (Profile, error) {
	profile := Profile{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		HourlyWage: in.HourlyWage,
		Role:       auth.RoleEmployee,
	}
	if profile.Name == "" {
		return Profile{}, ErrNameRequired
	}
	if profile.Email == "" {
		return Profile{}, ErrEmailRequired
	}
	if profile.HourlyWage.IsNegative() {
		return Profile{}, ErrNegativeWage
	}
	if len(in.Password) < minPasswordLength {
		return Profile{}, ErrPasswordTooShort
	}
	if in.Role != "" {
		role, err := auth.ParseRole(in.Role)
		if err != nil {
			return Profile{}, err
		}
		if role != auth.RoleEmployee && actor.Role != auth.RoleSuper {
			return Profile{}, ErrForbidden
		}
		profile.Role = role
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Profile{}, err
	}
	return s.store.Create(ctx, profile, hash)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Profile, error) {
	profile, err := s.store.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Profile{}, ErrNameRequired
		}
		profile.Name = name
	}
	if in.HourlyWage != nil {
		if in.HourlyWage.IsNegative() {
			return Profile{}, ErrNegativeWage
		}
		profile.HourlyWage = *in.HourlyWage
	}
	if in.Hidden != nil {
		profile.Hidden = *in.Hidden
	}
	return s.store.Update(ctx, profile)
}

// CurrentRole returns the stored role for id.
func (s *Service) CurrentRole(ctx context.Context, id string) (string, error) {
	profile, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

// AssignRole changes another employee's role. Only super users may do this.
func (s *Service) AssignRole(ctx context.Context, actor auth.UserContext, id, role string) (Profile, error) {
	if actor.Role != auth.RoleSuper {
		return Profile{}, ErrForbidden
	}
	if actor.EmployeeID == id {
		return Profile{}, ErrSelfRoleChange
	}
	parsed, err := auth.ParseRole(role)
	if err != nil {
		return Profile{}, err
	}
	return s.store.SetRole(ctx, id, parsed)
}

package deduction

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, employeeID string) ([]Rule, error) {
	return s.store.ListByEmployee(ctx, employeeID, false)
}

// ActiveFor returns the rules the payroll engine should apply for one employee.
func (s *Service) ActiveFor(ctx context.Context, employeeID string) ([]Rule, error) {
	rules, err := s.store.ListByEmployee(ctx, employeeID, true)
	if err != nil {
		return nil, err
	}
	return Active(rules), nil
}

// ActiveByEmployee groups every active rule by employee id.
func (s *Service) ActiveByEmployee(ctx context.Context) (map[string][]Rule, error) {
	rules, err := s.store.ListActiveAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Rule)
	for _, rule := range Active(rules) {
		out[rule.EmployeeID] = append(out[rule.EmployeeID], rule)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (Rule, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Rule, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return Rule{}, ErrEmployeeMissing
	}
	rule := Rule{
		EmployeeID: in.EmployeeID,
		Name:       strings.TrimSpace(in.Name),
		Amount:     in.Amount,
		Kind:       in.Kind,
		Active:     in.Active,
	}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return s.store.Create(ctx, rule)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Rule, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Rule{}, err
	}
	current.Name = strings.TrimSpace(in.Name)
	current.Amount = in.Amount
	current.Kind = in.Kind
	current.Active = in.Active
	if err := current.Validate(); err != nil {
		return Rule{}, err
	}
	return s.store.Update(ctx, current)
}

// Toggle flips the active flag.
func (s *Service) Toggle(ctx context.Context, id string) (Rule, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Rule{}, err
	}
	current.Active = !current.Active
	return s.store.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id string) (Rule, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Rule{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return Rule{}, err
	}
	return current, nil
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type StoreAPI interface {
	FindUserByEmail(ctx context.Context, email string) (AuthUser, error)
	UpdateLastLogin(ctx context.Context, employeeID string) error
}

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

type LoginResult struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Landing string `json:"landing"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.secret, Claims{EmployeeID: user.ID, Email: user.Email, Role: user.Role}, s.ttl)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last_login failed", "employeeId", user.ID, "err", err)
	}

	return LoginResult{
		Token:   token,
		User:    User{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		Landing: LandingPath(user.Role),
	}, nil
}

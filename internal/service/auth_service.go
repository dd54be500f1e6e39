package service

import (
	"context"
	"errors"
	"time"

	"eventhub/internal/model"
	"eventhub/internal/util"
	"eventhub/pkg/rbac"
)

type AuthService struct {
	users     UserStore
	jwtSecret string
}

func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

var validRoles = map[string]bool{
	rbac.RoleAdmin:        true,
	rbac.RoleLead:         true,
	rbac.RoleMember:       true,
	rbac.RoleFinance:      true,
	rbac.RolePaymentAdmin: true,
}

// Register creates a new user. An empty role defaults to MEMBER.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*model.User, error) {
	if role == "" {
		role = rbac.RoleMember
	}
	if !validRoles[role] {
		return nil, errors.New("unknown role")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials and returns a session JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", errors.New("invalid email or password")
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", errors.New("invalid email or password")
	}

	return util.GenerateJWT(u.ID, u.Role, s.jwtSecret)
}

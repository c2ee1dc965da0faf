// Package service holds the business logic between the HTTP handlers and
// the stores. Services raise typed domain errors; only the HTTP boundary
// turns them into status codes.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"memory-gallery/internal/core/auth"
	"memory-gallery/internal/domain"
	"memory-gallery/pkg/utils"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// UpdateUserInput carries a partial update; nil fields stay untouched.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

type UserService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, jwt *auth.JWTer, log *zap.Logger) *UserService {
	return &UserService{users: users, jwt: jwt, log: log}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) error {
	u := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.Uint("id", u.ID), zap.String("email", u.Email))
	return nil
}

// Authenticate deliberately reports the same not-found error for an
// unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(ctx, u)
}

// Refresh rotates the token pair. The presented token must byte-match the
// stored one, so a superseded or stolen token is rejected.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.Parse(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, err
	}
	u, err := s.users.ByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || u.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*u.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	}
	return s.issuePair(ctx, u)
}

// Logout clears the stored refresh token, invalidating future refreshes.
func (s *UserService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.Parse(accessToken, auth.TokenAccess)
	if err != nil {
		return err
	}
	u, err := s.users.ByEmail(ctx, claims.Subject)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return s.users.SetRefreshToken(ctx, u.ID, nil)
}

func (s *UserService) issuePair(ctx context.Context, u *domain.User) (*TokenPair, error) {
	access, err := s.jwt.IssueAccess(u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.jwt.IssueRefresh(u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, &refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// RoleOf backs the role gate in the auth middleware.
func (s *UserService) RoleOf(ctx context.Context, email string) (string, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", domain.ErrNotFound
	}
	return string(u.Role), nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.All(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) error {
	fields := map[string]any{}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Password != nil {
		fields["password_hash"] = utils.HashPassword(*in.Password)
	}
	u, err := s.users.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	ok, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

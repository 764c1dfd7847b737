package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/auth"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/repository"
	"github.com/sedhub/tender-insight-api/pkg/config"
)

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	cfg        *config.Config
}

// newAuthService creates a new auth service implementation
func newAuthService(repos *repository.Repositories, cfg *config.Config) AuthService {
	return &authServiceImpl{
		repos:      repos,
		jwtService: auth.NewJWTService(cfg.JWTSecret),
		cfg:        cfg,
	}
}

// Login authenticates a user and returns a token
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials")
	}

	return s.issueTokens(user)
}

// Register creates a new user account. Each registration provisions a fresh
// tenant; all of the account's profiles, scores and cache entries live under
// that tenant ID.
func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	existing, err := s.repos.User.GetByEmail(ctx, req.Email)
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", req.Email)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		Email:         req.Email,
		PasswordHash:  hashedPassword,
		Role:          string(models.RoleUser),
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
	}

	// The account and its empty compliance profile are created in one
	// transaction; a user must never exist without a profile row.
	err = s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		if err := repos.User.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile := &models.CompanyProfile{
			TenantID: user.TenantID,
			UserID:   user.ID,
		}
		if err := repos.Profile.Upsert(ctx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ValidateToken validates a JWT token and returns its claims
func (s *authServiceImpl) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwtService.ValidateToken(token)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, token string) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.repos.User.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	return s.issueTokens(user)
}

func (s *authServiceImpl) issueTokens(user *models.User) (*models.LoginResponse, error) {
	claims := auth.Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
	}

	token, expiresAt, err := s.jwtService.GenerateToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, _, err := s.jwtService.GenerateRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

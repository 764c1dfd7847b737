package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/auth"
	"github.com/sedhub/tender-insight-api/internal/models"
	"github.com/sedhub/tender-insight-api/internal/repository"
	"github.com/sedhub/tender-insight-api/pkg/config"
)

// mockUserRepo serves users from a map keyed by email
type mockUserRepo struct {
	users map[string]*models.User
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

// mockTxManager runs the transactional function against the same repository
// set; rollback behavior is the database driver's concern, not the
// service's.
type mockTxManager struct {
	repos *repository.Repositories
}

func (m *mockTxManager) WithTransaction(_ context.Context, fn func(repos *repository.Repositories) error) error {
	return fn(m.repos)
}

// failingProfileRepo rejects every write
type failingProfileRepo struct {
	mockProfileRepo
}

func (f *failingProfileRepo) Upsert(context.Context, *models.CompanyProfile) error {
	return fmt.Errorf("disk full")
}

func newTestAuthService(users *mockUserRepo, profiles repository.ProfileRepository) AuthService {
	repos := &repository.Repositories{
		User:    users,
		Profile: profiles,
	}
	repos.Tx = &mockTxManager{repos: repos}

	return newAuthService(repos, &config.Config{JWTSecret: "test-secret"})
}

func TestRegisterProvisionsTenantAndProfile(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{}}
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{}}
	svc := newTestAuthService(users, profiles)

	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:         "owner@buildco.co.za",
		Password:      "correct horse battery staple",
		CompanyName:   "BuildCo",
		ContactPerson: "T. Mokoena",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.TenantID == uuid.Nil {
		t.Error("Expected registration to provision a tenant ID")
	}
	if user.PasswordHash == "correct horse battery staple" {
		t.Error("Expected password to be hashed")
	}

	// The empty profile is created alongside the account, under the same
	// tenant.
	profile, err := profiles.GetByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected a profile for the new user, got %v", err)
	}
	if profile.TenantID != user.TenantID {
		t.Errorf("Profile tenant %s does not match user tenant %s", profile.TenantID, user.TenantID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"owner@buildco.co.za": {ID: uuid.New(), Email: "owner@buildco.co.za"},
	}}
	svc := newTestAuthService(users, &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{}})

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:         "owner@buildco.co.za",
		Password:      "correct horse battery staple",
		CompanyName:   "BuildCo",
		ContactPerson: "T. Mokoena",
	})
	if err == nil {
		t.Error("Expected duplicate email to be rejected")
	}
}

func TestRegisterFailsWhenProfileCannotBeCreated(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{}}
	svc := newTestAuthService(users, &failingProfileRepo{})

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:         "owner@buildco.co.za",
		Password:      "correct horse battery staple",
		CompanyName:   "BuildCo",
		ContactPerson: "T. Mokoena",
	})
	if err == nil {
		t.Error("Expected registration to fail when the profile write fails")
	}
}

func TestLoginIssuesTenantScopedToken(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "owner@buildco.co.za",
		PasswordHash: hash,
		Role:         string(models.RoleUser),
	}
	users := &mockUserRepo{users: map[string]*models.User{user.Email: user}}
	svc := newTestAuthService(users, &mockProfileRepo{profiles: map[uuid.UUID]*models.CompanyProfile{}})

	response, err := svc.Login(context.Background(), user.Email, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := svc.ValidateToken(response.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.TenantID != user.TenantID {
		t.Errorf("Expected token tenant %s, got %s", user.TenantID, claims.TenantID)
	}

	if _, err := svc.Login(context.Background(), user.Email, "wrong password"); err == nil {
		t.Error("Expected wrong password to be rejected")
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/you/ode-foodhall/pkg/auth"
	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/repository"
)

type AuthSvc struct {
	repo      *repository.StaffRepo
	accessTTL time.Duration
}

func NewAuthSvc(r *repository.StaffRepo, accessTTL time.Duration) *AuthSvc {
	return &AuthSvc{repo: r, accessTTL: accessTTL}
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.StaffUser, string, error) {
	u, err := s.repo.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := auth.CreateAccessToken(u.ID, string(u.Role), u.Email, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// EnsureSeed creates the bootstrap admin account when it is missing,
// so a fresh deployment has a way into the staff endpoints.
func (s *AuthSvc) EnsureSeed(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.repo.ByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrInvalidCredentials) && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, &domain.StaffUser{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
	})
}

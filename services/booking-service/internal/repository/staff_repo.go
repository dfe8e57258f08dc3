package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

type StaffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.StaffUser{})
}

func (r *StaffRepo) Create(ctx context.Context, u *domain.StaffUser) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *StaffRepo) ByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	var u domain.StaffUser
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return &u, nil
}

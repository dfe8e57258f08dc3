package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

var ErrVendorNotFound = errors.New("vendor application not found")

type VendorRepo struct {
	db *gorm.DB
}

func NewVendorRepo(db *gorm.DB) *VendorRepo {
	return &VendorRepo{db: db}
}

func (r *VendorRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.VendorApplication{})
}

func (r *VendorRepo) Create(ctx context.Context, v *domain.VendorApplication) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = domain.VendorNew
	}
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VendorRepo) List(ctx context.Context, page, size int32, status string) ([]domain.VendorApplication, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.VendorApplication{})
	if status != "" {
		qb = qb.Where("status = ?", status)
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.VendorApplication
	if err := qb.Order("created_at DESC").Limit(int(size)).Offset(int(page * size)).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *VendorRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.VendorApplication, error) {
	var v domain.VendorApplication
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&v, "id = ?", id).Error; err != nil {
			return err
		}
		v.Status = status
		return tx.Save(&v).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &v, nil
}

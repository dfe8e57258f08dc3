package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db: db}
}

func (r *ExperienceRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Experience{})
}

func (r *ExperienceRepo) Create(ctx context.Context, e *domain.Experience) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

// BySlug resolves an experience by its public slug. publicOnly filters
// to rows the booking form may see.
func (r *ExperienceRepo) BySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Experience, error) {
	qb := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publicOnly {
		qb = qb.Where("is_public = ?", true)
	}
	var e domain.Experience
	if err := qb.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExperienceNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExperienceRepo) ByID(ctx context.Context, id string) (*domain.Experience, error) {
	var e domain.Experience
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExperienceNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExperienceRepo) List(ctx context.Context, publicOnly bool) ([]domain.Experience, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Experience{})
	if publicOnly {
		qb = qb.Where("is_public = ?", true)
	}
	var out []domain.Experience
	if err := qb.Order("title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ExperienceRepo) Update(ctx context.Context, e *domain.Experience) error {
	return r.db.WithContext(ctx).Model(&domain.Experience{}).Where("id = ?", e.ID).Updates(e).Error
}

func (r *ExperienceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Experience{}, "id = ?", id).Error
}

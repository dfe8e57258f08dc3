package service

import (
	"context"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/repository"
)

type ExperienceSvc struct {
	repo *repository.ExperienceRepo
}

func NewExperienceSvc(r *repository.ExperienceRepo) *ExperienceSvc {
	return &ExperienceSvc{repo: r}
}

func (s *ExperienceSvc) Create(ctx context.Context, in domain.Experience) (*domain.Experience, error) {
	if in.Slug == "" {
		return nil, domain.Invalid("slug", "required")
	}
	if in.Price < 0 {
		return nil, domain.Invalid("price", "must not be negative")
	}
	if in.Capacity < 1 {
		return nil, domain.Invalid("capacity", "must be at least 1")
	}
	if err := s.repo.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *ExperienceSvc) BySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Experience, error) {
	return s.repo.BySlug(ctx, slug, publicOnly)
}

func (s *ExperienceSvc) List(ctx context.Context, publicOnly bool) ([]domain.Experience, error) {
	return s.repo.List(ctx, publicOnly)
}

func (s *ExperienceSvc) Update(ctx context.Context, in domain.Experience) (*domain.Experience, error) {
	if err := s.repo.Update(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *ExperienceSvc) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

package service

import (
	"context"
	"net/mail"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/repository"
)

type VendorSvc struct {
	repo *repository.VendorRepo
	pub  EventPublisher
}

func NewVendorSvc(r *repository.VendorRepo, pub EventPublisher) *VendorSvc {
	return &VendorSvc{repo: r, pub: pub}
}

func (s *VendorSvc) Apply(ctx context.Context, in domain.VendorApplication) (*domain.VendorApplication, error) {
	if in.BusinessName == "" {
		return nil, domain.Invalid("businessName", "required")
	}
	if in.ContactName == "" {
		return nil, domain.Invalid("contactName", "required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, domain.Invalid("email", "not a valid email address")
	}
	in.Status = domain.VendorNew
	if err := s.repo.Create(ctx, &in); err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, "vendor.applied", map[string]any{
		"application_id": in.ID,
		"business_name":  in.BusinessName,
		"cuisine":        in.Cuisine,
	})
	return &in, nil
}

func (s *VendorSvc) List(ctx context.Context, page, size int32, status string) ([]domain.VendorApplication, int64, error) {
	return s.repo.List(ctx, page, size, status)
}

func (s *VendorSvc) UpdateStatus(ctx context.Context, id, status string) (*domain.VendorApplication, error) {
	switch status {
	case domain.VendorNew, domain.VendorReviewed, domain.VendorAccepted, domain.VendorRejected:
	default:
		return nil, domain.Invalid("status", "unknown value")
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

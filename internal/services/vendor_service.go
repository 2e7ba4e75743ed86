package services

import (
	"context"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
)

type VendorService struct {
	VendorRepo *repositories.VendorRepository
}

func (s *VendorService) CreateVendor(ctx context.Context, v models.Vendor) (int, error) {
	if v.Status == "" {
		v.Status = models.VendorStatusActive
	}
	return s.VendorRepo.CreateVendor(ctx, v)
}

func (s *VendorService) GetVendorByID(ctx context.Context, id int) (models.Vendor, error) {
	return s.VendorRepo.GetVendorByID(ctx, id)
}

func (s *VendorService) GetVendors(ctx context.Context) ([]models.Vendor, error) {
	return s.VendorRepo.GetVendors(ctx)
}

func (s *VendorService) UpdateVendor(ctx context.Context, v models.Vendor) error {
	return s.VendorRepo.UpdateVendor(ctx, v)
}

func (s *VendorService) ArchiveVendor(ctx context.Context, id int) error {
	return s.VendorRepo.ArchiveVendor(ctx, id)
}

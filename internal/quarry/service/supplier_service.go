package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/google/uuid"
)

type SupplierService struct {
	supplierRepo *repository.SupplierRepository
	audit        *auditor
}

func NewSupplierService(supplierRepo *repository.SupplierRepository, audit *auditor) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, audit: audit}
}

type CreateSupplierInput struct {
	Code         string `json:"code"`
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	LeadTimeDays int    `json:"lead_time_days"`
	Notes        string `json:"notes"`
}

func (s *SupplierService) Create(ctx context.Context, input *CreateSupplierInput, createdBy string) (*entity.Supplier, error) {
	now := time.Now()
	supplier := &entity.Supplier{
		ID:           uuid.New().String(),
		Code:         input.Code,
		Name:         input.Name,
		ContactName:  input.ContactName,
		Phone:        input.Phone,
		Email:        input.Email,
		Address:      input.Address,
		LeadTimeDays: input.LeadTimeDays,
		Status:       entity.SupplierStatusActive,
		Notes:        input.Notes,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("创建供应商失败: %w", err)
	}
	s.audit.record(ctx, "supplier", supplier.ID, "supplier_created", createdBy, nil)
	return supplier, nil
}

func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

func (s *SupplierService) List(ctx context.Context, keyword string, page, size int) ([]entity.Supplier, int64, error) {
	return s.supplierRepo.List(ctx, keyword, page, size)
}

type UpdateSupplierInput struct {
	Code         *string `json:"code"`
	Name         *string `json:"name"`
	ContactName  *string `json:"contact_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	LeadTimeDays *int    `json:"lead_time_days"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

func (s *SupplierService) Update(ctx context.Context, id string, input *UpdateSupplierInput, updatedBy string) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Code != nil {
		supplier.Code = *input.Code
	}
	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.ContactName != nil {
		supplier.ContactName = *input.ContactName
	}
	if input.Phone != nil {
		supplier.Phone = *input.Phone
	}
	if input.Email != nil {
		supplier.Email = *input.Email
	}
	if input.Address != nil {
		supplier.Address = *input.Address
	}
	if input.LeadTimeDays != nil {
		supplier.LeadTimeDays = *input.LeadTimeDays
	}
	if input.Status != nil {
		supplier.Status = *input.Status
	}
	if input.Notes != nil {
		supplier.Notes = *input.Notes
	}
	supplier.UpdatedAt = time.Now()

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("更新供应商失败: %w", err)
	}
	s.audit.record(ctx, "supplier", supplier.ID, "supplier_updated", updatedBy, nil)
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id string, deletedBy string) error {
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return err
	}
	lots, err := s.supplierRepo.CountLots(ctx, id)
	if err != nil {
		return err
	}
	if lots > 0 {
		return &HasChildrenError{Kind: "supplier", ID: id, Children: lots}
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除供应商失败: %w", err)
	}
	s.audit.record(ctx, "supplier", id, "supplier_deleted", deletedBy, nil)
	return nil
}

package service

import (
	"context"

	"github.com/qureshi08/NPF-1/internal/config"
	"github.com/qureshi08/NPF-1/internal/infra"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/google/uuid"
)

// InvoiceService renders A4 PDF invoices for orders.
type InvoiceService interface {
	// Generate writes the invoice PDF and returns its path on disk.
	Generate(ctx context.Context, orderID uuid.UUID) (string, error)
}

type invoiceService struct {
	orderRepo repository.OrderRepository
	info      infra.InvoiceInfo
	storage   string
}

func NewInvoiceService(orderRepo repository.OrderRepository, cfg *config.Config) InvoiceService {
	return &invoiceService{
		orderRepo: orderRepo,
		info: infra.InvoiceInfo{
			ShopName:    cfg.ShopName,
			ShopAddress: cfg.ShopAddress,
			ShopContact: cfg.ShopContact,
		},
		storage: cfg.InvoiceStoragePath,
	}
}

func (s *invoiceService) Generate(ctx context.Context, orderID uuid.UUID) (string, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return "", NotFoundf("order")
	}
	return infra.GenerateInvoicePDF(order, s.info, s.storage)
}

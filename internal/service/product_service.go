package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"
	"github.com/qureshi08/NPF-1/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type productService struct {
	repo       repository.ProductRepository
	dispatcher *worker.Dispatcher
}

func NewProductService(repo repository.ProductRepository, dispatcher *worker.Dispatcher) ProductService {
	return &productService{repo: repo, dispatcher: dispatcher}
}

func (s *productService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, fmt.Errorf("SKU %s: %w", req.SKU, ErrDuplicate)
	}

	p := model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		ImageURL:      req.ImageURL,
	}
	if p.ReorderLevel == 0 {
		p.ReorderLevel = 5
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		p.CategoryID = &cid
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("invalid supplier_id: %w", err)
		}
		p.SupplierID = &sid
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "product_created", p.ID, fmt.Sprintf("%s (%s) created", p.Name, p.SKU))
	return productToResponse(&p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("product")
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, *productToResponse(&products[i]))
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("product")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if req.ReorderLevel != nil {
		p.ReorderLevel = *req.ReorderLevel
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		p.CategoryID = &cid
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("invalid supplier_id: %w", err)
		}
		p.SupplierID = &sid
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "product_updated", p.ID, fmt.Sprintf("%s (%s) updated", p.Name, p.SKU))
	return productToResponse(p), nil
}

// Delete refuses to remove a product that appears on any order: the
// line-item snapshots must keep resolving.
func (s *productService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFoundf("product")
	}

	n, err := s.repo.CountOrderItems(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &IntegrityError{Entity: "product", Reason: fmt.Sprintf("it appears on %d order(s)", n)}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return &IntegrityError{Entity: "product", Reason: "it is referenced by other records"}
		}
		return err
	}

	s.audit(ctx, actorID, "product_deleted", p.ID, fmt.Sprintf("%s (%s) deleted", p.Name, p.SKU))
	return nil
}

func (s *productService) audit(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details string) {
	if s.dispatcher == nil {
		return
	}
	et := "product"
	eid := entityID.String()
	_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditJobPayload{
		UserID:     actorID.String(),
		Action:     action,
		EntityType: &et,
		EntityID:   &eid,
		Details:    &details,
	})
}

// profitMargin is (selling - cost) / cost × 100, rounded to 2 decimals.
// Zero-cost products report a 0 margin rather than dividing by zero.
func profitMargin(cost, selling decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return selling.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		ProfitMargin:  profitMargin(p.CostPrice, p.SellingPrice),
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
		LowStock:      p.StockQuantity <= p.ReorderLevel,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		cid := p.CategoryID.String()
		resp.CategoryID = &cid
	}
	if p.Category != nil {
		resp.CategoryName = &p.Category.Name
	}
	if p.SupplierID != nil {
		sid := p.SupplierID.String()
		resp.SupplierID = &sid
	}
	if p.Supplier != nil {
		resp.SupplierName = &p.Supplier.Name
	}
	return resp
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"
	"github.com/qureshi08/NPF-1/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService covers stock operations outside the order flow:
// manual adjustments, the per-product movement trail, and the low stock
// listing.
type InventoryService interface {
	AdjustStock(ctx context.Context, actorID, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Movements(ctx context.Context, productID uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	dispatcher   *worker.Dispatcher
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	dispatcher *worker.Dispatcher,
) InventoryService {
	return &inventoryService{productRepo: productRepo, movementRepo: movementRepo, dispatcher: dispatcher}
}

// AdjustStock applies a signed correction. Negative deltas use the same
// guarded update as reservations, so a correction can never push stock
// below zero.
func (s *inventoryService) AdjustStock(ctx context.Context, actorID, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, NotFoundf("product")
	}
	if req.Delta == 0 {
		return productToResponse(product), nil
	}

	var stockAfter int
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		locked, err := s.productRepo.FindForUpdateTx(tx, productID)
		if err != nil {
			return err
		}
		stockBefore := locked.StockQuantity

		if req.Delta < 0 {
			ok, err := s.productRepo.ReserveStockTx(tx, productID, -req.Delta)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{ProductName: product.Name, Available: stockBefore}
			}
		} else {
			if err := s.productRepo.ReleaseStockTx(tx, productID, req.Delta); err != nil {
				return err
			}
		}
		stockAfter = stockBefore + req.Delta

		return s.movementRepo.CreateTx(tx, &model.StockMovement{
			ProductID:   productID,
			Type:        "adjustment",
			Quantity:    req.Delta,
			StockBefore: stockBefore,
			StockAfter:  stockAfter,
			Reason:      req.Reason,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.audit(ctx, actorID, "stock_adjusted", productID,
		fmt.Sprintf("%s: %+d (%s)", product.Name, req.Delta, req.Reason))

	if stockAfter <= product.ReorderLevel && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlertPayload{
			ProductName:  product.Name,
			SKU:          product.SKU,
			Stock:        stockAfter,
			ReorderLevel: product.ReorderLevel,
		})
	}

	fresh, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return productToResponse(fresh), nil
}

func (s *inventoryService) Movements(ctx context.Context, productID uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, NotFoundf("product")
	}
	movements, err := s.movementRepo.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StockMovementResponse, 0, len(movements))
	for i := range movements {
		m := &movements[i]
		mr := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			mr.ReferenceID = &ref
		}
		out = append(out, mr)
	}
	return out, nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *inventoryService) audit(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details string) {
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

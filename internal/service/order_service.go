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

type OrderService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status string) (*dto.OrderResponse, error)
	AddItem(ctx context.Context, actorID, orderID uuid.UUID, req dto.AddOrderItemRequest) (*dto.OrderResponse, error)
	RemoveItem(ctx context.Context, actorID, orderID, itemID uuid.UUID) (*dto.OrderResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type orderService struct {
	repo         repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	txnRepo      repository.TransactionRepository
	movementRepo repository.MovementRepository
	dispatcher   *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	txnRepo repository.TransactionRepository,
	movementRepo repository.MovementRepository,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		repo:         repo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// derivePaymentStatus is the single source of truth for an order's
// payment state: Unpaid when nothing was paid, Paid when payments cover
// the total, Partial in between.
func derivePaymentStatus(paid, total decimal.Decimal) string {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return model.PaymentUnpaid
	case paid.GreaterThanOrEqual(total):
		return model.PaymentPaid
	default:
		return model.PaymentPartial
	}
}

// loyaltyPoints earns 1 point per 100 currency units of the line subtotal.
func loyaltyPoints(subtotal decimal.Decimal) int64 {
	return subtotal.Div(decimal.NewFromInt(100)).Floor().IntPart()
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// ── Create / Get / List ───────────────────────────────────────────────────────

func (s *orderService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order := model.Order{
		OrderDate:     time.Now(),
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentUnpaid,
		TotalAmount:   decimal.Zero,
		PaymentMethod: req.PaymentMethod,
	}

	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		if _, err := s.customerRepo.FindByID(ctx, cid); err != nil {
			return nil, NotFoundf("customer")
		}
		order.CustomerID = &cid
	}
	if req.OrderDate != nil {
		d, err := time.Parse("2006-01-02", *req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("invalid order_date: %w", err)
		}
		order.OrderDate = d
	}

	if err := s.repo.Create(ctx, &order); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "order_created", "order", order.ID, fmt.Sprintf("Order #%s created", shortID(order.ID)))
	return s.Get(ctx, order.ID)
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("order")
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, *orderToResponse(&orders[i]))
	}
	return resp, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status string) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("order")
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "order_status_changed", "order", order.ID,
		fmt.Sprintf("Order #%s: %s -> %s", shortID(order.ID), order.Status, status))
	return s.Get(ctx, id)
}

// ── AddItem ───────────────────────────────────────────────────────────────────
// One ACID transaction covering the whole fulfillment step:
//   1. Reserve stock with the guarded UPDATE (rolls back on oversell)
//   2. Insert the item snapshot at today's selling price
//   3. Recompute the order total
//   4. Award loyalty points (1 per 100 spent)
//   5. Re-derive payment status; keep the mirrored ledger row in sync
//      when the order was already fully paid

func (s *orderService) AddItem(ctx context.Context, actorID, orderID uuid.UUID, req dto.AddOrderItemRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, NotFoundf("order")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, NotFoundf("product")
	}
	if product.StockQuantity < req.Quantity {
		return nil, &InsufficientStockError{ProductName: product.Name, Available: product.StockQuantity}
	}

	unitPrice := product.SellingPrice
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	var stockAfter int
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Row locks: total and stock state come from inside the tx, never
		// from the pre-flight reads. Two concurrent adds to the same order
		// serialize here instead of overwriting each other's total.
		current, err := s.repo.FindForUpdateTx(tx, order.ID)
		if err != nil {
			return err
		}
		locked, err := s.productRepo.FindForUpdateTx(tx, productID)
		if err != nil {
			return err
		}
		stockBefore := locked.StockQuantity

		reserved, err := s.productRepo.ReserveStockTx(tx, productID, req.Quantity)
		if err != nil {
			return err
		}
		if !reserved {
			// Another request took the stock between pre-flight and here
			return &InsufficientStockError{ProductName: product.Name, Available: stockBefore}
		}
		stockAfter = stockBefore - req.Quantity

		orderRef := order.ID
		if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
			ProductID:   productID,
			Type:        "reservation",
			Quantity:    -req.Quantity,
			StockBefore: stockBefore,
			StockAfter:  stockAfter,
			Reason:      fmt.Sprintf("Order #%s", shortID(order.ID)),
			ReferenceID: &orderRef,
		}); err != nil {
			return err
		}

		item := model.OrderItem{
			OrderID:   order.ID,
			ProductID: productID,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		}
		if err := s.repo.CreateItemTx(tx, &item); err != nil {
			return err
		}

		newTotal := current.TotalAmount.Add(subtotal)
		if err := s.repo.UpdateTotalTx(tx, order.ID, newTotal); err != nil {
			return err
		}

		// Loyalty: earned on add, never clawed back on removal
		if order.CustomerID != nil {
			if points := loyaltyPoints(subtotal); points > 0 {
				if err := s.customerRepo.AddLoyaltyPointsTx(tx, *order.CustomerID, points); err != nil {
					return err
				}
			}
		}

		paid, err := s.repo.SumPaymentsTx(tx, order.ID)
		if err != nil {
			return err
		}
		newStatus := derivePaymentStatus(paid, newTotal)
		if newStatus != current.PaymentStatus {
			if err := s.repo.UpdatePaymentStatusTx(tx, order.ID, newStatus); err != nil {
				return err
			}
		}

		// A fully paid order mirrors its total into one Income row.
		// Growing the order grows that row (or creates it if missing).
		if current.PaymentStatus == model.PaymentPaid {
			return s.syncIncomeTx(tx, order, newTotal)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.audit(ctx, actorID, "order_item_added", "order", order.ID,
		fmt.Sprintf("%d x %s added to order #%s", req.Quantity, product.Name, shortID(order.ID)))
	s.notifyIfLow(ctx, product, stockAfter)

	return s.Get(ctx, orderID)
}

// syncIncomeTx keeps the mirrored Sales ledger row equal to the order total.
func (s *orderService) syncIncomeTx(tx *gorm.DB, order *model.Order, newTotal decimal.Decimal) error {
	txn, err := s.txnRepo.FindFirstIncomeByOrderTx(tx, order.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		orderRef := order.ID
		desc := fmt.Sprintf("Order #%s", shortID(order.ID))
		if order.Customer != nil {
			desc = fmt.Sprintf("Order #%s - %s", shortID(order.ID), order.Customer.Name)
		}
		return s.txnRepo.CreateTx(tx, &model.Transaction{
			Type:           model.TxnIncome,
			Category:       "Sales",
			Amount:         newTotal,
			Date:           time.Now(),
			Description:    &desc,
			RelatedOrderID: &orderRef,
		})
	}

	if newTotal.LessThanOrEqual(decimal.Zero) {
		return s.txnRepo.DeleteTx(tx, txn.ID)
	}
	txn.Amount = newTotal
	return s.txnRepo.UpdateTx(tx, txn)
}

// ── RemoveItem ────────────────────────────────────────────────────────────────
// Releases the reserved stock (unconditional increment), drops the line,
// shrinks the total, and re-derives payment status. Loyalty points stay.

func (s *orderService) RemoveItem(ctx context.Context, actorID, orderID, itemID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, NotFoundf("order")
	}

	var item *model.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, NotFoundf("order item")
	}

	productName := ""
	if item.Product != nil {
		productName = item.Product.Name
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		current, err := s.repo.FindForUpdateTx(tx, order.ID)
		if err != nil {
			return err
		}
		locked, err := s.productRepo.FindForUpdateTx(tx, item.ProductID)
		if err != nil {
			return err
		}
		stockBefore := locked.StockQuantity

		if err := s.productRepo.ReleaseStockTx(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}

		orderRef := order.ID
		if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
			ProductID:   item.ProductID,
			Type:        "release",
			Quantity:    item.Quantity,
			StockBefore: stockBefore,
			StockAfter:  stockBefore + item.Quantity,
			Reason:      fmt.Sprintf("Item removed from order #%s", shortID(order.ID)),
			ReferenceID: &orderRef,
		}); err != nil {
			return err
		}

		if err := s.repo.DeleteItemTx(tx, item.ID); err != nil {
			return err
		}

		newTotal := current.TotalAmount.Sub(item.Subtotal)
		if err := s.repo.UpdateTotalTx(tx, order.ID, newTotal); err != nil {
			return err
		}

		paid, err := s.repo.SumPaymentsTx(tx, order.ID)
		if err != nil {
			return err
		}
		newStatus := derivePaymentStatus(paid, newTotal)
		if newStatus != current.PaymentStatus {
			if err := s.repo.UpdatePaymentStatusTx(tx, order.ID, newStatus); err != nil {
				return err
			}
		}

		if current.PaymentStatus == model.PaymentPaid {
			return s.syncIncomeTx(tx, order, newTotal)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.audit(ctx, actorID, "order_item_removed", "order", order.ID,
		fmt.Sprintf("%s removed from order #%s", productName, shortID(order.ID)))

	return s.Get(ctx, orderID)
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Restores stock for every line, then drops the order; items and payments
// go with it via cascade. Mirrored ledger rows survive as history.

func (s *orderService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFoundf("order")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range order.Items {
			item := &order.Items[i]

			locked, err := s.productRepo.FindForUpdateTx(tx, item.ProductID)
			if err != nil {
				return err
			}
			stockBefore := locked.StockQuantity

			if err := s.productRepo.ReleaseStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}

			orderRef := order.ID
			if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        "order_deleted",
				Quantity:    item.Quantity,
				StockBefore: stockBefore,
				StockAfter:  stockBefore + item.Quantity,
				Reason:      fmt.Sprintf("Order #%s deleted", shortID(order.ID)),
				ReferenceID: &orderRef,
			}); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, order.ID)
	})
	if txErr != nil {
		return txErr
	}

	s.audit(ctx, actorID, "order_deleted", "order", order.ID,
		fmt.Sprintf("Order #%s deleted, stock restored", shortID(order.ID)))
	return nil
}

// ── Async side effects ────────────────────────────────────────────────────────

func (s *orderService) audit(ctx context.Context, actorID uuid.UUID, action, entityType string, entityID uuid.UUID, details string) {
	if s.dispatcher == nil {
		return
	}
	et := entityType
	eid := entityID.String()
	_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditJobPayload{
		UserID:     actorID.String(),
		Action:     action,
		EntityType: &et,
		EntityID:   &eid,
		Details:    &details,
	})
}

func (s *orderService) notifyIfLow(ctx context.Context, product *model.Product, stockAfter int) {
	if s.dispatcher == nil || stockAfter > product.ReorderLevel {
		return
	}
	_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlertPayload{
		ProductName:  product.Name,
		SKU:          product.SKU,
		Stock:        stockAfter,
		ReorderLevel: product.ReorderLevel,
	})
	link := "/products/" + product.ID.String()
	_ = s.dispatcher.EnqueueNotify(ctx, worker.NotifyJobPayload{
		Broadcast: true,
		Message:   fmt.Sprintf("Low stock: %s is down to %d units", product.Name, stockAfter),
		Type:      "warning",
		Link:      &link,
	})
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func orderToResponse(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:            o.ID.String(),
		OrderDate:     o.OrderDate.Format("2006-01-02"),
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Items:         make([]dto.OrderItemResponse, 0, len(o.Items)),
		Payments:      make([]dto.PaymentResponse, 0, len(o.Payments)),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.CustomerID != nil {
		cid := o.CustomerID.String()
		resp.CustomerID = &cid
	}
	if o.Customer != nil {
		resp.CustomerName = &o.Customer.Name
	}

	paid := decimal.Zero
	for i := range o.Payments {
		p := &o.Payments[i]
		paid = paid.Add(p.Amount)
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:        p.ID.String(),
			Amount:    p.Amount,
			Method:    p.Method,
			Notes:     p.Notes,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
	}
	resp.AmountPaid = paid
	resp.Balance = o.TotalAmount.Sub(paid)

	for i := range o.Items {
		item := &o.Items[i]
		ir := dto.OrderItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		if item.Product != nil {
			ir.Product = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}

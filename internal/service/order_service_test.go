package service_test

import (
	"context"
	"testing"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOrderSvc() (service.OrderService, *stubOrderRepo, *stubProductRepo, *stubCustomerRepo, *stubTxnRepo, *stubMovementRepo) {
	orderRepo := newStubOrderRepo()
	productRepo := newStubProductRepo()
	customerRepo := newStubCustomerRepo()
	txnRepo := newStubTxnRepo()
	movementRepo := &stubMovementRepo{}

	svc := service.NewOrderService(orderRepo, productRepo, customerRepo, txnRepo, movementRepo, nil)
	return svc, orderRepo, productRepo, customerRepo, txnRepo, movementRepo
}

// ── AddItem ───────────────────────────────────────────────────────────────────

func TestAddItem_ReservesStockAndRecomputesTotal(t *testing.T) {
	svc, orderRepo, productRepo, _, _, movementRepo := buildOrderSvc()
	p := seedProduct(productRepo, "Oak Dining Table", "TBL-001", 10, 2, 250)
	o := seedOrder(orderRepo, nil)

	resp, err := svc.AddItem(context.Background(), uuid.New(), o.ID, dto.AddOrderItemRequest{
		ProductID: p.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, "500", resp.TotalAmount.String())
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "250", resp.Items[0].UnitPrice.String())
	assert.Equal(t, 8, productRepo.products[p.ID].StockQuantity)

	// Reservation leaves an audit movement with a negative quantity
	require.Len(t, movementRepo.movements, 1)
	m := movementRepo.movements[0]
	assert.Equal(t, "reservation", m.Type)
	assert.Equal(t, -2, m.Quantity)
	assert.Equal(t, 10, m.StockBefore)
	assert.Equal(t, 8, m.StockAfter)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	svc, orderRepo, productRepo, _, _, _ := buildOrderSvc()
	p := seedProduct(productRepo, "Walnut Bookshelf", "SHF-002", 1, 0, 400)
	o := seedOrder(orderRepo, nil)

	_, err := svc.AddItem(context.Background(), uuid.New(), o.ID, dto.AddOrderItemRequest{
		ProductID: p.ID.String(),
		Quantity:  5,
	})
	assert.ErrorContains(t, err, "Insufficient stock for Walnut Bookshelf")
	assert.ErrorContains(t, err, "Available: 1")

	// Nothing reserved, no line added
	assert.Equal(t, 1, productRepo.products[p.ID].StockQuantity)
	assert.Empty(t, orderRepo.orders[o.ID].Items)
}

func TestAddItem_AwardsLoyaltyPoints(t *testing.T) {
	svc, orderRepo, productRepo, customerRepo, _, _ := buildOrderSvc()
	c := seedCustomer(customerRepo, "Ahmed Khan")
	p := seedProduct(productRepo, "Teak Side Table", "TBL-003", 20, 2, 250)
	o := seedOrder(orderRepo, &c.ID)

	// subtotal 250 → floor(250/100) = 2 points
	_, err := svc.AddItem(context.Background(), uuid.New(), o.ID, dto.AddOrderItemRequest{
		ProductID: p.ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, customerRepo.customers[c.ID].LoyaltyPoints)

	// subtotal 99 → 0 points, counter unchanged
	cheap := seedProduct(productRepo, "Coaster Set", "ACC-001", 20, 2, 99)
	_, err = svc.AddItem(context.Background(), uuid.New(), o.ID, dto.AddOrderItemRequest{
		ProductID: cheap.ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, customerRepo.customers[c.ID].LoyaltyPoints)
}

func TestAddItem_PaidOrderGrowsLedgerRow(t *testing.T) {
	svc, orderRepo, productRepo, _, txnRepo, _ := buildOrderSvc()
	p := seedProduct(productRepo, "Pine Chair", "CHR-004", 10, 2, 100)
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(500)
	o.PaymentStatus = model.PaymentPaid
	o.Payments = []model.Payment{{ID: uuid.New(), OrderID: o.ID, Amount: decimal.NewFromInt(500), Method: "Cash"}}

	orderRef := o.ID
	ledger := &model.Transaction{
		Type:           model.TxnIncome,
		Category:       "Sales",
		Amount:         decimal.NewFromInt(500),
		RelatedOrderID: &orderRef,
	}
	require.NoError(t, txnRepo.CreateTx(nil, ledger))

	resp, err := svc.AddItem(context.Background(), uuid.New(), o.ID, dto.AddOrderItemRequest{
		ProductID: p.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	// Total grew past the payments, so the order drops back to Partial —
	// and the mirrored ledger row tracks the new total
	assert.Equal(t, "700", resp.TotalAmount.String())
	assert.Equal(t, model.PaymentPartial, resp.PaymentStatus)
	assert.Equal(t, "700", txnRepo.txns[ledger.ID].Amount.String())
}

// Two requests can load the same order before either commits. Pinning the
// repo's plain reads to a pre-commit snapshot reproduces that interleaving:
// the total and the stock figures must come from the locked in-transaction
// reads, so the second add builds on the first instead of overwriting it.
func TestAddItem_StaleSnapshotDoesNotLoseTotal(t *testing.T) {
	svc, orderRepo, productRepo, _, _, movementRepo := buildOrderSvc()
	p := seedProduct(productRepo, "Oak Stool", "STL-009", 10, 2, 100)
	o := seedOrder(orderRepo, nil)

	staleOrder := *o
	orderRepo.pinned = &staleOrder
	staleProduct := *p
	productRepo.pinned = &staleProduct

	for i := 0; i < 2; i++ {
		_, err := svc.AddItem(context.Background(), uuid.New(), o.ID, dto.AddOrderItemRequest{
			ProductID: p.ID.String(),
			Quantity:  1,
		})
		require.NoError(t, err)
	}

	require.Len(t, o.Items, 2)
	assert.Equal(t, "200", o.TotalAmount.String())

	sum := decimal.Zero
	for i := range o.Items {
		sum = sum.Add(o.Items[i].Subtotal)
	}
	assert.True(t, o.TotalAmount.Equal(sum), "total %s != sum of items %s", o.TotalAmount, sum)

	// Movement rows chain on committed stock, not the snapshot
	require.Len(t, movementRepo.movements, 2)
	assert.Equal(t, 10, movementRepo.movements[0].StockBefore)
	assert.Equal(t, 9, movementRepo.movements[0].StockAfter)
	assert.Equal(t, 9, movementRepo.movements[1].StockBefore)
	assert.Equal(t, 8, movementRepo.movements[1].StockAfter)
	assert.Equal(t, 8, productRepo.products[p.ID].StockQuantity)
}

// ── RemoveItem ────────────────────────────────────────────────────────────────

func TestRemoveItem_ReleasesStockAndKeepsLoyalty(t *testing.T) {
	svc, orderRepo, productRepo, customerRepo, _, movementRepo := buildOrderSvc()
	c := seedCustomer(customerRepo, "Fatima Noor")
	p := seedProduct(productRepo, "Mahogany Wardrobe", "WRD-005", 5, 1, 300)
	o := seedOrder(orderRepo, &c.ID)

	resp, err := svc.AddItem(context.Background(), uuid.New(), o.ID, dto.AddOrderItemRequest{
		ProductID: p.ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, customerRepo.customers[c.ID].LoyaltyPoints)
	assert.Equal(t, 4, productRepo.products[p.ID].StockQuantity)

	itemID := uuid.MustParse(resp.Items[0].ID)
	resp, err = svc.RemoveItem(context.Background(), uuid.New(), o.ID, itemID)
	require.NoError(t, err)

	assert.Equal(t, "0", resp.TotalAmount.String())
	assert.Empty(t, resp.Items)
	assert.Equal(t, 5, productRepo.products[p.ID].StockQuantity)

	// Points earned on add are never clawed back
	assert.Equal(t, 3, customerRepo.customers[c.ID].LoyaltyPoints)

	// reservation + release movements
	require.Len(t, movementRepo.movements, 2)
	assert.Equal(t, "release", movementRepo.movements[1].Type)
	assert.Equal(t, 1, movementRepo.movements[1].Quantity)
}

func TestRemoveItem_PaidOrderShrinksLedgerRow(t *testing.T) {
	svc, orderRepo, productRepo, _, txnRepo, _ := buildOrderSvc()
	p := seedProduct(productRepo, "Cedar Bed Frame", "BED-006", 10, 2, 200)
	o := seedOrder(orderRepo, nil)

	keep := model.OrderItem{
		ID: uuid.New(), OrderID: o.ID, ProductID: p.ID,
		Quantity: 1, UnitPrice: decimal.NewFromInt(500), Subtotal: decimal.NewFromInt(500),
	}
	drop := model.OrderItem{
		ID: uuid.New(), OrderID: o.ID, ProductID: p.ID,
		Quantity: 1, UnitPrice: decimal.NewFromInt(200), Subtotal: decimal.NewFromInt(200),
	}
	o.Items = []model.OrderItem{keep, drop}
	o.TotalAmount = decimal.NewFromInt(700)
	o.PaymentStatus = model.PaymentPaid
	o.Payments = []model.Payment{{ID: uuid.New(), OrderID: o.ID, Amount: decimal.NewFromInt(700), Method: "Card"}}

	orderRef := o.ID
	ledger := &model.Transaction{
		Type: model.TxnIncome, Category: "Sales",
		Amount: decimal.NewFromInt(700), RelatedOrderID: &orderRef,
	}
	require.NoError(t, txnRepo.CreateTx(nil, ledger))

	resp, err := svc.RemoveItem(context.Background(), uuid.New(), o.ID, drop.ID)
	require.NoError(t, err)

	assert.Equal(t, "500", resp.TotalAmount.String())
	assert.Equal(t, model.PaymentPaid, resp.PaymentStatus) // payments still cover the total
	assert.Equal(t, "500", txnRepo.txns[ledger.ID].Amount.String())
}

func TestRemoveItem_EmptyOrderDeletesLedgerRow(t *testing.T) {
	svc, orderRepo, productRepo, _, txnRepo, _ := buildOrderSvc()
	p := seedProduct(productRepo, "Rosewood Console", "CNS-007", 3, 1, 500)
	o := seedOrder(orderRepo, nil)

	only := model.OrderItem{
		ID: uuid.New(), OrderID: o.ID, ProductID: p.ID,
		Quantity: 1, UnitPrice: decimal.NewFromInt(500), Subtotal: decimal.NewFromInt(500),
	}
	o.Items = []model.OrderItem{only}
	o.TotalAmount = decimal.NewFromInt(500)
	o.PaymentStatus = model.PaymentPaid
	o.Payments = []model.Payment{{ID: uuid.New(), OrderID: o.ID, Amount: decimal.NewFromInt(500), Method: "Cash"}}

	orderRef := o.ID
	ledger := &model.Transaction{
		Type: model.TxnIncome, Category: "Sales",
		Amount: decimal.NewFromInt(500), RelatedOrderID: &orderRef,
	}
	require.NoError(t, txnRepo.CreateTx(nil, ledger))

	resp, err := svc.RemoveItem(context.Background(), uuid.New(), o.ID, only.ID)
	require.NoError(t, err)

	// Total at zero drops the mirrored row entirely
	assert.Equal(t, "0", resp.TotalAmount.String())
	_, stillThere := txnRepo.txns[ledger.ID]
	assert.False(t, stillThere)
}

// ── Delete ────────────────────────────────────────────────────────────────────

func TestDeleteOrder_RestoresStockAndKeepsLedger(t *testing.T) {
	svc, orderRepo, productRepo, _, txnRepo, movementRepo := buildOrderSvc()
	p := seedProduct(productRepo, "Sheesham Dresser", "DRS-008", 7, 1, 350)
	o := seedOrder(orderRepo, nil)

	o.Items = []model.OrderItem{{
		ID: uuid.New(), OrderID: o.ID, ProductID: p.ID,
		Quantity: 3, UnitPrice: decimal.NewFromInt(350), Subtotal: decimal.NewFromInt(1050),
	}}
	o.TotalAmount = decimal.NewFromInt(1050)

	orderRef := o.ID
	ledger := &model.Transaction{
		Type: model.TxnIncome, Category: "Sales",
		Amount: decimal.NewFromInt(1050), RelatedOrderID: &orderRef,
	}
	require.NoError(t, txnRepo.CreateTx(nil, ledger))

	err := svc.Delete(context.Background(), uuid.New(), o.ID)
	require.NoError(t, err)

	_, exists := orderRepo.orders[o.ID]
	assert.False(t, exists)
	assert.Equal(t, 10, productRepo.products[p.ID].StockQuantity)

	// The ledger row survives as history
	_, kept := txnRepo.txns[ledger.ID]
	assert.True(t, kept)

	require.Len(t, movementRepo.movements, 1)
	assert.Equal(t, "order_deleted", movementRepo.movements[0].Type)
	assert.Equal(t, 3, movementRepo.movements[0].Quantity)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	svc, _, _, _, _, _ := buildOrderSvc()
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

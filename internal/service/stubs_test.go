package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository stubs. They return DB() == nil, which makes the
// services run their transaction closures directly (no real *gorm.DB).

// stubProductRepo is an in-memory ProductRepository. When pinned is set,
// FindByID serves that snapshot instead of live state, emulating a read
// taken before another writer committed; the locked Tx read always sees
// live state.
type stubProductRepo struct {
	mu             sync.Mutex
	products       map[uuid.UUID]*model.Product
	orderItemCount int64
	pinned         *model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if r.pinned != nil && r.pinned.ID == id {
		snapshot := *r.pinned
		return &snapshot, nil
	}
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) LowStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.StockQuantity <= p.ReorderLevel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) CountLowStock(_ context.Context) (int64, error) {
	low, _ := r.LowStock(context.Background())
	return int64(len(low)), nil
}

func (r *stubProductRepo) CountOrderItems(_ context.Context, _ uuid.UUID) (int64, error) {
	return r.orderItemCount, nil
}

// FindForUpdateTx ignores the pinned snapshot: a locked read always
// reflects committed state.
func (r *stubProductRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) ReserveStockTx(_ *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.StockQuantity < qty {
		return false, nil
	}
	p.StockQuantity -= qty
	return true, nil
}

func (r *stubProductRepo) ReleaseStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.StockQuantity += qty
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubOrderRepo is an in-memory OrderRepository. Items and payments live
// inside the order structs, mimicking the preloads of the real repo.
// A pinned order makes FindByID serve a stale snapshot while the locked
// Tx read keeps seeing live state, like a row another writer just moved.
type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	pinned *model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	if r.pinned != nil && r.pinned.ID == id {
		snapshot := *r.pinned
		return &snapshot, nil
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.Order, int64, error) {
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) CountByPaymentStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.PaymentStatus == status {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindItemTx(_ *gorm.DB, itemID uuid.UUID) (*model.OrderItem, error) {
	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				return &o.Items[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) CreateItemTx(_ *gorm.DB, item *model.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	o, ok := r.orders[item.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Items = append(o.Items, *item)
	return nil
}

func (r *stubOrderRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items = append(o.Items[:i], o.Items[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) UpdateTotalTx(_ *gorm.DB, orderID uuid.UUID, total decimal.Decimal) error {
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.TotalAmount = total
	return nil
}

func (r *stubOrderRepo) UpdatePaymentStatusTx(_ *gorm.DB, orderID uuid.UUID, status string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentStatus = status
	return nil
}

func (r *stubOrderRepo) CreatePaymentTx(_ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	o, ok := r.orders[p.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Payments = append(o.Payments, *p)
	return nil
}

func (r *stubOrderRepo) SumPaymentsTx(_ *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	if o, ok := r.orders[orderID]; ok {
		for i := range o.Payments {
			sum = sum.Add(o.Payments[i].Amount)
		}
	}
	return sum, nil
}

func (r *stubOrderRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// stubCustomerRepo is an in-memory CustomerRepository.
type stubCustomerRepo struct {
	customers  map[uuid.UUID]*model.Customer
	orderCount int64
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *stubCustomerRepo) CountOrders(_ context.Context, _ uuid.UUID) (int64, error) {
	return r.orderCount, nil
}

func (r *stubCustomerRepo) AddLoyaltyPointsTx(_ *gorm.DB, id uuid.UUID, points int64) error {
	if points <= 0 {
		return nil
	}
	if c, ok := r.customers[id]; ok {
		c.LoyaltyPoints += int(points)
	}
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubTxnRepo is an in-memory TransactionRepository. Insertion order is
// kept so FindFirstIncomeByOrderTx returns the oldest row.
type stubTxnRepo struct {
	txns  map[uuid.UUID]*model.Transaction
	order []uuid.UUID
}

func newStubTxnRepo() *stubTxnRepo {
	return &stubTxnRepo{txns: make(map[uuid.UUID]*model.Transaction)}
}

func (r *stubTxnRepo) Create(_ context.Context, t *model.Transaction) error {
	return r.CreateTx(nil, t)
}

func (r *stubTxnRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTxnRepo) List(_ context.Context, _ dto.TransactionFilter) ([]model.Transaction, int64, error) {
	out := make([]model.Transaction, 0, len(r.order))
	for _, id := range r.order {
		if t, ok := r.txns[id]; ok {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTxnRepo) Update(_ context.Context, t *model.Transaction) error {
	return r.UpdateTx(nil, t)
}

func (r *stubTxnRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.DeleteTx(nil, id)
}

func (r *stubTxnRepo) SumByType(_ context.Context, txnType, _, _ string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.txns {
		if t.Type == txnType {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (r *stubTxnRepo) MonthlyIncome(_ context.Context, _ time.Time) (decimal.Decimal, error) {
	return r.SumByType(context.Background(), model.TxnIncome, "", "")
}

func (r *stubTxnRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.txns[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *stubTxnRepo) UpdateTx(_ *gorm.DB, t *model.Transaction) error {
	r.txns[t.ID] = t
	return nil
}

func (r *stubTxnRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.txns, id)
	return nil
}

func (r *stubTxnRepo) FindFirstIncomeByOrderTx(_ *gorm.DB, orderID uuid.UUID) (*model.Transaction, error) {
	for _, id := range r.order {
		t, ok := r.txns[id]
		if !ok {
			continue
		}
		if t.Type == model.TxnIncome && t.RelatedOrderID != nil && *t.RelatedOrderID == orderID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTxnRepo) SumIncomeByOrder(_ context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.txns {
		if t.Type == model.TxnIncome && t.RelatedOrderID != nil && *t.RelatedOrderID == orderID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (r *stubTxnRepo) SumIncomeByOrderTx(_ *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error) {
	return r.SumIncomeByOrder(context.Background(), orderID)
}

func (r *stubTxnRepo) DB() *gorm.DB { return nil }

var _ repository.TransactionRepository = (*stubTxnRepo)(nil)

// stubMovementRepo captures stock movements for assertion.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, sku string, stock, reorder int, price float64) *model.Product {
	p := &model.Product{
		ID:            uuid.New(),
		SKU:           sku,
		Name:          name,
		SellingPrice:  decimal.NewFromFloat(price),
		StockQuantity: stock,
		ReorderLevel:  reorder,
	}
	repo.products[p.ID] = p
	return p
}

func seedCustomer(repo *stubCustomerRepo, name string) *model.Customer {
	c := &model.Customer{ID: uuid.New(), Name: name}
	repo.customers[c.ID] = c
	return c
}

func seedOrder(repo *stubOrderRepo, customerID *uuid.UUID) *model.Order {
	o := &model.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		OrderDate:     time.Now(),
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentUnpaid,
		TotalAmount:   decimal.Zero,
	}
	repo.orders[o.ID] = o
	return o
}

package repository

import (
	"context"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository is the data access contract for orders, their line
// items, and their payments. Item and payment writes happen inside the
// order mutation transaction, so they only exist as Tx variants.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByPaymentStatus(ctx context.Context, status string) (int64, error)

	// Used inside transactions — callers must pass the tx instance.
	// FindForUpdateTx takes a FOR UPDATE row lock, so concurrent
	// mutations of the same order serialize on it; total and payment
	// status must be derived from this read, never from a
	// pre-transaction snapshot.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindItemTx(tx *gorm.DB, itemID uuid.UUID) (*model.OrderItem, error)
	CreateItemTx(tx *gorm.DB, item *model.OrderItem) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	UpdateTotalTx(tx *gorm.DB, orderID uuid.UUID, total decimal.Decimal) error
	UpdatePaymentStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error
	CreatePaymentTx(tx *gorm.DB, p *model.Payment) error
	SumPaymentsTx(tx *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Payments").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.DateFrom != "" {
		q = q.Where("order_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("order_date <= ?", filter.DateTo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Customer").Preload("Items.Product").Preload("Payments").
		Order("order_date DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *orderRepo) CountByPaymentStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_status = ?", status).Count(&n).Error
	return n, err
}

func (r *orderRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindItemTx(tx *gorm.DB, itemID uuid.UUID) (*model.OrderItem, error) {
	var item model.OrderItem
	err := tx.Preload("Product").First(&item, "id = ?", itemID).Error
	return &item, err
}

func (r *orderRepo) CreateItemTx(tx *gorm.DB, item *model.OrderItem) error {
	return tx.Create(item).Error
}

func (r *orderRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.OrderItem{}, "id = ?", itemID).Error
}

func (r *orderRepo) UpdateTotalTx(tx *gorm.DB, orderID uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", orderID).Update("total_amount", total).Error
}

func (r *orderRepo) UpdatePaymentStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", orderID).Update("payment_status", status).Error
}

func (r *orderRepo) CreatePaymentTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *orderRepo) SumPaymentsTx(tx *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.Model(&model.Payment{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

func (r *orderRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	// Items and payments go with the order via ON DELETE CASCADE.
	return tx.Delete(&model.Order{}, "id = ?", id).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }

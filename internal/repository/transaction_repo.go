package repository

import (
	"context"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository is the data access contract for the finance ledger.
type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)
	Update(ctx context.Context, t *model.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumByType(ctx context.Context, txnType, dateFrom, dateTo string) (decimal.Decimal, error)
	MonthlyIncome(ctx context.Context, now time.Time) (decimal.Decimal, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	UpdateTx(tx *gorm.DB, t *model.Transaction) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// FindFirstIncomeByOrderTx returns the oldest Income row mirroring the
	// order, or gorm.ErrRecordNotFound when the order has none yet.
	FindFirstIncomeByOrderTx(tx *gorm.DB, orderID uuid.UUID) (*model.Transaction, error)

	// SumIncomeByOrder totals the Income rows tied to one order.
	SumIncomeByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	// SumIncomeByOrderTx is the same sum evaluated inside a transaction.
	SumIncomeByOrderTx(tx *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var txns []model.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.DateFrom != "" {
		q = q.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("date <= ?", filter.DateTo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("date DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&txns).Error
	return txns, total, err
}

func (r *transactionRepo) Update(ctx context.Context, t *model.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *transactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepo) SumByType(ctx context.Context, txnType, dateFrom, dateTo string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("type = ?", txnType)
	if dateFrom != "" {
		q = q.Where("date >= ?", dateFrom)
	}
	if dateTo != "" {
		q = q.Where("date <= ?", dateTo)
	}
	err := q.Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

func (r *transactionRepo) MonthlyIncome(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("type = ? AND date >= ?", model.TxnIncome, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) UpdateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Save(t).Error
}

func (r *transactionRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepo) FindFirstIncomeByOrderTx(tx *gorm.DB, orderID uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := tx.Where("related_order_id = ? AND type = ?", orderID, model.TxnIncome).
		Order("created_at ASC").First(&t).Error
	return &t, err
}

func (r *transactionRepo) SumIncomeByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("related_order_id = ? AND type = ?", orderID, model.TxnIncome).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

func (r *transactionRepo) SumIncomeByOrderTx(tx *gorm.DB, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.Model(&model.Transaction{}).
		Where("related_order_id = ? AND type = ?", orderID, model.TxnIncome).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }

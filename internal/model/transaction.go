package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TxnIncome  = "Income"
	TxnExpense = "Expense"
)

// Transaction is an independent ledger record. Order payments mirror into
// it (Type=Income, Category=Sales, RelatedOrderID set) so the books stay
// consistent with order reconciliation; manual entries leave
// RelatedOrderID nil.
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type           string          `gorm:"type:varchar(10);not null"`
	Category       string          `gorm:"type:varchar(50)"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date           time.Time       `gorm:"not null;index"`
	Description    *string         `gorm:"type:varchar(200)"`
	RelatedOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt      time.Time
}

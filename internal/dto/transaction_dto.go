package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTransactionRequest struct {
	Type        string          `json:"type"        validate:"required,oneof=Income Expense"`
	Category    string          `json:"category"    validate:"required,max=50"`
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Date        *string         `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	Description *string         `json:"description" validate:"omitempty,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type TransactionFilter struct {
	Type     string `form:"type"` // Income | Expense
	Category string `form:"category"`
	DateFrom string `form:"date_from"` // YYYY-MM-DD
	DateTo   string `form:"date_to"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"`
	Description    *string         `json:"description"`
	RelatedOrderID *string         `json:"related_order_id"`
	CreatedAt      string          `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// FinanceSummary totals the ledger over an optional date range.
type FinanceSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

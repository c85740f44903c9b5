package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	CustomerID    *string `json:"customer_id"    validate:"omitempty,uuid"`
	OrderDate     *string `json:"order_date"     validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=Cash Card 'Bank Transfer' 'Mobile Wallet'"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Processing Shipped Delivered Cancelled"`
}

// AddOrderItemRequest adds quantity units of a product to an open order.
type AddOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// RecordPaymentRequest registers one payment against an order.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required,oneof=Cash Card 'Bank Transfer' 'Mobile Wallet'"`
	Notes  *string         `json:"notes"  validate:"omitempty,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type OrderFilter struct {
	Status        string `form:"status"`         // order status; empty = all
	PaymentStatus string `form:"payment_status"` // Unpaid | Partial | Paid
	CustomerID    string `form:"customer_id"`
	DateFrom      string `form:"date_from"` // YYYY-MM-DD
	DateTo        string `form:"date_to"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type PaymentResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Notes     *string         `json:"notes"`
	CreatedAt string          `json:"created_at"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerID    *string             `json:"customer_id"`
	CustomerName  *string             `json:"customer_name"`
	OrderDate     string              `json:"order_date"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	Balance       decimal.Decimal     `json:"balance"`
	PaymentMethod *string             `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
	Payments      []PaymentResponse   `json:"payments"`
	CreatedAt     string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

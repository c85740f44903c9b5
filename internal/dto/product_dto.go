package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	SKU           string          `json:"sku"            validate:"required,min=2,max=40"`
	Name          string          `json:"name"           validate:"required,min=2,max=120"`
	Description   *string         `json:"description"`
	CategoryID    *string         `json:"category_id"    validate:"omitempty,uuid"`
	CostPrice     decimal.Decimal `json:"cost_price"     validate:"required"`
	SellingPrice  decimal.Decimal `json:"selling_price"  validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	ReorderLevel  int             `json:"reorder_level"  validate:"min=0"`
	SupplierID    *string         `json:"supplier_id"    validate:"omitempty,uuid"`
	ImageURL      *string         `json:"image_url"      validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=120"`
	Description  *string          `json:"description"`
	CategoryID   *string          `json:"category_id"   validate:"omitempty,uuid"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,min=0"`
	SupplierID   *string          `json:"supplier_id"   validate:"omitempty,uuid"`
	ImageURL     *string          `json:"image_url"     validate:"omitempty,url"`
}

// AdjustStockRequest applies a manual correction outside the order flow.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	SupplierID string `form:"supplier_id"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	CategoryID    *string         `json:"category_id"`
	CategoryName  *string         `json:"category_name"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"` // percent; 0 when cost is 0
	StockQuantity int             `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	LowStock      bool            `json:"low_stock"`
	SupplierID    *string         `json:"supplier_id"`
	SupplierName  *string         `json:"supplier_name"`
	ImageURL      *string         `json:"image_url"`
	CreatedAt     string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// StockMovementResponse is one row of a product's stock audit trail.
type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}

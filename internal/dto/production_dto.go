package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductionJobRequest struct {
	OrderID        *string `json:"order_id"        validate:"omitempty,uuid"`
	ProductName    string  `json:"product_name"    validate:"required,min=2,max=120"`
	Description    *string `json:"description"     validate:"omitempty,max=500"`
	StartDate      *string `json:"start_date"      validate:"omitempty,datetime=2006-01-02"`
	DueDate        *string `json:"due_date"        validate:"omitempty,datetime=2006-01-02"`
	AssignedWorker *string `json:"assigned_worker" validate:"omitempty,max=100"`
}

type UpdateProductionJobRequest struct {
	Status         *string `json:"status"          validate:"omitempty,oneof=Queued Cutting Assembling Polishing Finished"`
	DueDate        *string `json:"due_date"        validate:"omitempty,datetime=2006-01-02"`
	AssignedWorker *string `json:"assigned_worker" validate:"omitempty,max=100"`
	Description    *string `json:"description"     validate:"omitempty,max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductionJobFilter struct {
	Status  string `form:"status"`
	Overdue bool   `form:"overdue"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductionJobResponse struct {
	ID             string  `json:"id"`
	OrderID        *string `json:"order_id"`
	ProductName    string  `json:"product_name"`
	Description    *string `json:"description"`
	StartDate      string  `json:"start_date"`
	DueDate        *string `json:"due_date"`
	Status         string  `json:"status"`
	AssignedWorker *string `json:"assigned_worker"`
	Overdue        bool    `json:"overdue"`
	CreatedAt      string  `json:"created_at"`
}

type ProductionJobListResponse struct {
	Data  []ProductionJobResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

package dto

type CreateSupplierRequest struct {
	Name          string  `json:"name"           validate:"required,min=2,max=120"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=100"`
	Phone         *string `json:"phone"          validate:"omitempty,min=7,max=20"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Address       *string `json:"address"        validate:"omitempty,max=200"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=2,max=120"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=100"`
	Phone         *string `json:"phone"          validate:"omitempty,min=7,max=20"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Address       *string `json:"address"        validate:"omitempty,max=200"`
}

type SupplierResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	ProductCount  int64   `json:"product_count"`
	CreatedAt     string  `json:"created_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=80"`
	Type string `json:"type" validate:"required,oneof=Product Material"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	ProductCount int64  `json:"product_count"`
}

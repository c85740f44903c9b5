package service_test

import (
	"context"
	"testing"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductSvc() (service.ProductService, *stubProductRepo) {
	productRepo := newStubProductRepo()
	svc := service.NewProductService(productRepo, nil)
	return svc, productRepo
}

func TestCreateProduct_DefaultsReorderLevel(t *testing.T) {
	svc, _ := buildProductSvc()

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		SKU:           "SOF-020",
		Name:          "Velvet Sofa",
		CostPrice:     decimal.NewFromInt(900),
		SellingPrice:  decimal.NewFromInt(1500),
		StockQuantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.ReorderLevel)
	assert.True(t, resp.LowStock) // 3 <= 5
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc, productRepo := buildProductSvc()
	seedProduct(productRepo, "Glass Cabinet", "CAB-021", 5, 2, 700)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		SKU:          "CAB-021",
		Name:         "Another Cabinet",
		CostPrice:    decimal.NewFromInt(400),
		SellingPrice: decimal.NewFromInt(650),
	})
	assert.ErrorIs(t, err, service.ErrDuplicate)
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	svc, productRepo := buildProductSvc()
	p := seedProduct(productRepo, "Corner Shelf", "SHF-022", 12, 3, 180)

	name := "Corner Shelf XL"
	price := decimal.NewFromInt(220)
	resp, err := svc.Update(context.Background(), uuid.New(), p.ID, dto.UpdateProductRequest{
		Name:         &name,
		SellingPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Corner Shelf XL", resp.Name)
	assert.Equal(t, "220", resp.SellingPrice.String())
	assert.Equal(t, 12, resp.StockQuantity) // untouched
}

func TestDeleteProduct_BlockedByOrderHistory(t *testing.T) {
	svc, productRepo := buildProductSvc()
	p := seedProduct(productRepo, "Dining Bench", "BNC-023", 6, 2, 320)
	productRepo.orderItemCount = 4

	err := svc.Delete(context.Background(), uuid.New(), p.ID)
	assert.ErrorContains(t, err, "Cannot delete product")
	assert.ErrorContains(t, err, "4 order(s)")

	_, stillThere := productRepo.products[p.ID]
	assert.True(t, stillThere)
}

func TestProductProfitMargin(t *testing.T) {
	svc, _ := buildProductSvc()

	// (1500 - 900) / 900 × 100 = 66.67
	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		SKU:          "TBL-030",
		Name:         "Teak Table",
		CostPrice:    decimal.NewFromInt(900),
		SellingPrice: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, "66.67", resp.ProfitMargin.String())

	// Zero cost yields a zero margin, not a division error
	resp, err = svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		SKU:          "GFT-031",
		Name:         "Promo Coaster",
		CostPrice:    decimal.Zero,
		SellingPrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.True(t, resp.ProfitMargin.IsZero())
}

func TestDeleteProduct_NoHistory(t *testing.T) {
	svc, productRepo := buildProductSvc()
	p := seedProduct(productRepo, "Plant Stand", "PLT-024", 9, 2, 45)

	require.NoError(t, svc.Delete(context.Background(), uuid.New(), p.ID))
	_, stillThere := productRepo.products[p.ID]
	assert.False(t, stillThere)
}

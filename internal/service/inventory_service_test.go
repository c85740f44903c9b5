package service_test

import (
	"context"
	"testing"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventorySvc() (service.InventoryService, *stubProductRepo, *stubMovementRepo) {
	productRepo := newStubProductRepo()
	movementRepo := &stubMovementRepo{}
	svc := service.NewInventoryService(productRepo, movementRepo, nil)
	return svc, productRepo, movementRepo
}

func TestAdjustStock_PositiveDelta(t *testing.T) {
	svc, productRepo, movementRepo := buildInventorySvc()
	p := seedProduct(productRepo, "Office Desk", "DSK-010", 4, 2, 450)

	resp, err := svc.AdjustStock(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{
		Delta:  6,
		Reason: "Workshop batch completed",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.StockQuantity)

	require.Len(t, movementRepo.movements, 1)
	m := movementRepo.movements[0]
	assert.Equal(t, "adjustment", m.Type)
	assert.Equal(t, 6, m.Quantity)
	assert.Equal(t, 4, m.StockBefore)
	assert.Equal(t, 10, m.StockAfter)
}

func TestAdjustStock_NegativeDeltaGuarded(t *testing.T) {
	svc, productRepo, movementRepo := buildInventorySvc()
	p := seedProduct(productRepo, "Bar Stool", "STL-011", 3, 1, 120)

	// A correction can never push stock below zero
	_, err := svc.AdjustStock(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{
		Delta:  -5,
		Reason: "Damaged in storage",
	})
	assert.ErrorContains(t, err, "Insufficient stock for Bar Stool")
	assert.Equal(t, 3, productRepo.products[p.ID].StockQuantity)
	assert.Empty(t, movementRepo.movements)

	resp, err := svc.AdjustStock(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{
		Delta:  -2,
		Reason: "Damaged in storage",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.StockQuantity)
	assert.True(t, resp.LowStock)
}

func TestAdjustStock_ZeroDeltaIsNoop(t *testing.T) {
	svc, productRepo, movementRepo := buildInventorySvc()
	p := seedProduct(productRepo, "Lamp Stand", "LMP-012", 8, 2, 60)

	resp, err := svc.AdjustStock(context.Background(), uuid.New(), p.ID, dto.AdjustStockRequest{
		Delta:  0,
		Reason: "Stocktake, no difference",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.StockQuantity)
	assert.Empty(t, movementRepo.movements)
}

func TestMovements_UnknownProduct(t *testing.T) {
	svc, _, _ := buildInventorySvc()
	_, err := svc.Movements(context.Background(), uuid.New(), 50)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

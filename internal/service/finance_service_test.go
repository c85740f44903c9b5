package service_test

import (
	"context"
	"testing"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFinanceSvc() (service.FinanceService, *stubTxnRepo, *stubOrderRepo) {
	txnRepo := newStubTxnRepo()
	orderRepo := newStubOrderRepo()
	svc := service.NewFinanceService(txnRepo, orderRepo, nil)
	return svc, txnRepo, orderRepo
}

func TestCreateTransaction_InvalidAmount(t *testing.T) {
	svc, _, _ := buildFinanceSvc()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateTransactionRequest{
		Type:     model.TxnExpense,
		Category: "Timber",
		Amount:   decimal.Zero,
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestCreateTransaction_ManualEntry(t *testing.T) {
	svc, txnRepo, _ := buildFinanceSvc()

	date := "2026-08-01"
	desc := "Teak delivery"
	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateTransactionRequest{
		Type:        model.TxnExpense,
		Category:    "Timber",
		Amount:      decimal.NewFromInt(2500),
		Date:        &date,
		Description: &desc,
	})
	require.NoError(t, err)

	assert.Equal(t, model.TxnExpense, resp.Type)
	assert.Equal(t, "2026-08-01", resp.Date)
	assert.Nil(t, resp.RelatedOrderID)
	assert.Len(t, txnRepo.txns, 1)
}

func TestDeleteTransaction_RederivesOrderFromRemainingIncome(t *testing.T) {
	svc, txnRepo, orderRepo := buildFinanceSvc()
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(500)
	o.PaymentStatus = model.PaymentPaid

	// Two Income rows tied to the order: 300 + 200 = 500
	orderRef := o.ID
	first := &model.Transaction{Type: model.TxnIncome, Category: "Sales", Amount: decimal.NewFromInt(300), RelatedOrderID: &orderRef}
	second := &model.Transaction{Type: model.TxnIncome, Category: "Sales", Amount: decimal.NewFromInt(200), RelatedOrderID: &orderRef}
	require.NoError(t, txnRepo.CreateTx(nil, first))
	require.NoError(t, txnRepo.CreateTx(nil, second))

	// Dropping the 200 leaves 300 of income against a 500 total → Partial
	require.NoError(t, svc.Delete(context.Background(), uuid.New(), second.ID))
	assert.Equal(t, model.PaymentPartial, orderRepo.orders[o.ID].PaymentStatus)

	// Dropping the 300 leaves nothing → Unpaid
	require.NoError(t, svc.Delete(context.Background(), uuid.New(), first.ID))
	assert.Equal(t, model.PaymentUnpaid, orderRepo.orders[o.ID].PaymentStatus)
}

func TestDeleteTransaction_UnrelatedEntryLeavesOrdersAlone(t *testing.T) {
	svc, txnRepo, orderRepo := buildFinanceSvc()
	o := seedOrder(orderRepo, nil)
	o.PaymentStatus = model.PaymentPaid

	manual := &model.Transaction{Type: model.TxnExpense, Category: "Rent", Amount: decimal.NewFromInt(900)}
	require.NoError(t, txnRepo.CreateTx(nil, manual))

	require.NoError(t, svc.Delete(context.Background(), uuid.New(), manual.ID))
	assert.Equal(t, model.PaymentPaid, orderRepo.orders[o.ID].PaymentStatus)
	assert.Empty(t, txnRepo.txns)
}

func TestDeleteTransaction_OrderAlreadyGone(t *testing.T) {
	svc, txnRepo, _ := buildFinanceSvc()

	missing := uuid.New()
	orphan := &model.Transaction{Type: model.TxnIncome, Category: "Sales", Amount: decimal.NewFromInt(150), RelatedOrderID: &missing}
	require.NoError(t, txnRepo.CreateTx(nil, orphan))

	// Ledger rows outlive their orders; deleting one must not fail
	require.NoError(t, svc.Delete(context.Background(), uuid.New(), orphan.ID))
	assert.Empty(t, txnRepo.txns)
}

func TestFinanceSummary(t *testing.T) {
	svc, txnRepo, _ := buildFinanceSvc()

	require.NoError(t, txnRepo.CreateTx(nil, &model.Transaction{Type: model.TxnIncome, Category: "Sales", Amount: decimal.NewFromInt(1000)}))
	require.NoError(t, txnRepo.CreateTx(nil, &model.Transaction{Type: model.TxnExpense, Category: "Rent", Amount: decimal.NewFromInt(400)}))

	summary, err := svc.Summary(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "1000", summary.TotalIncome.String())
	assert.Equal(t, "400", summary.TotalExpense.String())
	assert.Equal(t, "600", summary.NetProfit.String())
}

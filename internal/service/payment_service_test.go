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

func buildPaymentSvc() (service.PaymentService, *stubOrderRepo, *stubTxnRepo) {
	orderRepo := newStubOrderRepo()
	txnRepo := newStubTxnRepo()
	svc := service.NewPaymentService(orderRepo, txnRepo, nil)
	return svc, orderRepo, txnRepo
}

func TestRecordPayment_InvalidAmount(t *testing.T) {
	svc, orderRepo, _ := buildPaymentSvc()
	o := seedOrder(orderRepo, nil)

	_, err := svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.Zero,
		Method: "Cash",
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(-50),
		Method: "Cash",
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestRecordPayment_PartialThenPaid(t *testing.T) {
	svc, orderRepo, txnRepo := buildPaymentSvc()
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(1000)

	resp, err := svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(400),
		Method: "Cash",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPartial, resp.PaymentStatus)
	assert.Equal(t, "400", resp.AmountPaid.String())
	assert.Equal(t, "600", resp.Balance.String())

	// The first payment opens the order's ledger row at the paid amount
	require.Len(t, txnRepo.txns, 1)
	ledger, err := txnRepo.FindFirstIncomeByOrderTx(nil, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxnIncome, ledger.Type)
	assert.Equal(t, "Sales", ledger.Category)
	assert.Equal(t, "400", ledger.Amount.String())

	resp, err = svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(600),
		Method: "Bank Transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, resp.PaymentStatus)
	assert.Equal(t, "0", resp.Balance.String())
	assert.Len(t, resp.Payments, 2)

	// The second payment grows the same row; no duplicate appears
	require.Len(t, txnRepo.txns, 1)
	ledger, err = txnRepo.FindFirstIncomeByOrderTx(nil, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000", ledger.Amount.String())
}

// Whatever path derives the payment status, the answer must be the same:
// the ledger sum and the payment sum track each other payment by payment.
func TestRecordPayment_LedgerSumMatchesPaymentSum(t *testing.T) {
	svc, orderRepo, txnRepo := buildPaymentSvc()
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(1000)

	for _, amount := range []int64{400, 250, 350} {
		resp, err := svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
			Amount: decimal.NewFromInt(amount),
			Method: "Cash",
		})
		require.NoError(t, err)

		ledgerSum, err := txnRepo.SumIncomeByOrder(context.Background(), o.ID)
		require.NoError(t, err)
		assert.True(t, ledgerSum.Equal(resp.AmountPaid),
			"ledger sum %s diverged from payment sum %s", ledgerSum, resp.AmountPaid)
	}

	assert.Equal(t, model.PaymentPaid, o.PaymentStatus)
}

func TestRecordPayment_OverpaymentLedgerCarriesPaidSum(t *testing.T) {
	svc, orderRepo, txnRepo := buildPaymentSvc()
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(1000)

	resp, err := svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(1200),
		Method: "Cash",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, resp.PaymentStatus)

	// The books record what actually came in, overpayment included
	ledger, err := txnRepo.FindFirstIncomeByOrderTx(nil, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "1200", ledger.Amount.String())
}

func TestRecordPayment_RepeatedPaidDoesNotDuplicateLedger(t *testing.T) {
	svc, orderRepo, txnRepo := buildPaymentSvc()
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(300)

	_, err := svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(300),
		Method: "Cash",
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(50),
		Method: "Cash",
	})
	require.NoError(t, err)

	require.Len(t, txnRepo.txns, 1)
	ledger, err := txnRepo.FindFirstIncomeByOrderTx(nil, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "350", ledger.Amount.String())
}

func TestMarkPaid_SettlesBalance(t *testing.T) {
	svc, orderRepo, txnRepo := buildPaymentSvc()
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(800)
	method := "Card"
	o.PaymentMethod = &method

	_, err := svc.RecordPayment(context.Background(), uuid.New(), o.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(300),
		Method: "Card",
	})
	require.NoError(t, err)

	resp, err := svc.MarkPaid(context.Background(), uuid.New(), o.ID)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPaid, resp.PaymentStatus)
	assert.Equal(t, "800", resp.AmountPaid.String())
	require.Len(t, resp.Payments, 2)
	assert.Equal(t, "500", resp.Payments[1].Amount.String())
	assert.Equal(t, "Card", resp.Payments[1].Method) // inherits the order's method

	ledger, err := txnRepo.FindFirstIncomeByOrderTx(nil, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "800", ledger.Amount.String())
}

func TestMarkPaid_AlreadySettledIsNoop(t *testing.T) {
	svc, orderRepo, txnRepo := buildPaymentSvc()
	o := seedOrder(orderRepo, nil)
	o.TotalAmount = decimal.NewFromInt(400)
	o.Payments = []model.Payment{{ID: uuid.New(), OrderID: o.ID, Amount: decimal.NewFromInt(400), Method: "Cash"}}
	o.PaymentStatus = model.PaymentPaid

	resp, err := svc.MarkPaid(context.Background(), uuid.New(), o.ID)
	require.NoError(t, err)

	assert.Len(t, resp.Payments, 1)
	assert.Empty(t, txnRepo.txns)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"
	"github.com/qureshi08/NPF-1/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	// RecordPayment registers one payment and re-derives the order's
	// payment status from the cumulative payment sum.
	RecordPayment(ctx context.Context, actorID, orderID uuid.UUID, req dto.RecordPaymentRequest) (*dto.OrderResponse, error)

	// MarkPaid settles the outstanding balance in a single payment.
	MarkPaid(ctx context.Context, actorID, orderID uuid.UUID) (*dto.OrderResponse, error)
}

type paymentService struct {
	orderRepo  repository.OrderRepository
	txnRepo    repository.TransactionRepository
	dispatcher *worker.Dispatcher
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	txnRepo repository.TransactionRepository,
	dispatcher *worker.Dispatcher,
) PaymentService {
	return &paymentService{orderRepo: orderRepo, txnRepo: txnRepo, dispatcher: dispatcher}
}

func (s *paymentService) RecordPayment(ctx context.Context, actorID, orderID uuid.UUID, req dto.RecordPaymentRequest) (*dto.OrderResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, NotFoundf("order")
	}

	return s.applyPayment(ctx, actorID, order, req.Amount, req.Method, req.Notes)
}

func (s *paymentService) MarkPaid(ctx context.Context, actorID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, NotFoundf("order")
	}

	paid := decimal.Zero
	for i := range order.Payments {
		paid = paid.Add(order.Payments[i].Amount)
	}
	balance := order.TotalAmount.Sub(paid)
	if balance.LessThanOrEqual(decimal.Zero) {
		// Nothing outstanding — already settled
		return orderToResponse(order), nil
	}

	method := "Cash"
	if order.PaymentMethod != nil && *order.PaymentMethod != "" {
		method = *order.PaymentMethod
	}
	note := "Marked as paid"
	return s.applyPayment(ctx, actorID, order, balance, method, &note)
}

// applyPayment runs the reconciliation transaction:
//  1. Insert the payment row
//  2. Sum all payments, re-derive the payment status from the locked
//     order row
//  3. Mirror the payment into the order's single Income ledger row
//     (create it on the first payment, grow it on each one after) so
//     the ledger sum always equals the payment sum
func (s *paymentService) applyPayment(ctx context.Context, actorID uuid.UUID, order *model.Order, amount decimal.Decimal, method string, notes *string) (*dto.OrderResponse, error) {
	var newStatus string
	txErr := runTx(ctx, s.orderRepo.DB(), func(tx *gorm.DB) error {
		// Row lock: the total may have moved since the pre-flight read
		current, err := s.orderRepo.FindForUpdateTx(tx, order.ID)
		if err != nil {
			return err
		}

		payment := model.Payment{
			OrderID: order.ID,
			Amount:  amount,
			Method:  method,
			Notes:   notes,
		}
		if err := s.orderRepo.CreatePaymentTx(tx, &payment); err != nil {
			return err
		}

		paid, err := s.orderRepo.SumPaymentsTx(tx, order.ID)
		if err != nil {
			return err
		}

		newStatus = derivePaymentStatus(paid, current.TotalAmount)
		if newStatus != current.PaymentStatus {
			if err := s.orderRepo.UpdatePaymentStatusTx(tx, order.ID, newStatus); err != nil {
				return err
			}
		}

		return s.mirrorIncomeTx(tx, order, amount)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.audit(ctx, actorID, "payment_recorded", order.ID,
		fmt.Sprintf("Payment of %s (%s) on order #%s, now %s",
			amount.StringFixed(2), method, shortID(order.ID), newStatus))

	fresh, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return orderToResponse(fresh), nil
}

// mirrorIncomeTx folds one payment into the order's Sales ledger row.
// Each order keeps a single Income row carrying the cumulative paid
// sum — created at the first payment, grown by every later one — so
// the ledger path and the payment path derive the same status.
func (s *paymentService) mirrorIncomeTx(tx *gorm.DB, order *model.Order, amount decimal.Decimal) error {
	txn, err := s.txnRepo.FindFirstIncomeByOrderTx(tx, order.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		orderRef := order.ID
		desc := fmt.Sprintf("Order #%s", shortID(order.ID))
		if order.Customer != nil {
			desc = fmt.Sprintf("Order #%s - %s", shortID(order.ID), order.Customer.Name)
		}
		return s.txnRepo.CreateTx(tx, &model.Transaction{
			Type:           model.TxnIncome,
			Category:       "Sales",
			Amount:         amount,
			Date:           time.Now(),
			Description:    &desc,
			RelatedOrderID: &orderRef,
		})
	}

	txn.Amount = txn.Amount.Add(amount)
	return s.txnRepo.UpdateTx(tx, txn)
}

func (s *paymentService) audit(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details string) {
	if s.dispatcher == nil {
		return
	}
	et := "order"
	eid := entityID.String()
	_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditJobPayload{
		UserID:     actorID.String(),
		Action:     action,
		EntityType: &et,
		EntityID:   &eid,
		Details:    &details,
	})
}

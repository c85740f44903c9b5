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

type FinanceService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	Summary(ctx context.Context, dateFrom, dateTo string) (*dto.FinanceSummary, error)
}

type financeService struct {
	repo       repository.TransactionRepository
	orderRepo  repository.OrderRepository
	dispatcher *worker.Dispatcher
}

func NewFinanceService(
	repo repository.TransactionRepository,
	orderRepo repository.OrderRepository,
	dispatcher *worker.Dispatcher,
) FinanceService {
	return &financeService{repo: repo, orderRepo: orderRepo, dispatcher: dispatcher}
}

func (s *financeService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	txn := model.Transaction{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        time.Now(),
		Description: req.Description,
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		txn.Date = d
	}

	if err := s.repo.Create(ctx, &txn); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "transaction_created", txn.ID,
		fmt.Sprintf("%s of %s (%s)", txn.Type, txn.Amount.StringFixed(2), txn.Category))
	return txnToResponse(&txn), nil
}

func (s *financeService) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("transaction")
	}
	return txnToResponse(txn), nil
}

func (s *financeService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	txns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.TransactionListResponse{
		Data:  make([]dto.TransactionResponse, 0, len(txns)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range txns {
		resp.Data = append(resp.Data, *txnToResponse(&txns[i]))
	}
	return resp, nil
}

func (s *financeService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("transaction")
	}

	txn.Type = req.Type
	txn.Category = req.Category
	txn.Amount = req.Amount
	txn.Description = req.Description
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		txn.Date = d
	}

	if err := s.repo.Update(ctx, txn); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "transaction_updated", txn.ID,
		fmt.Sprintf("%s set to %s (%s)", txn.Type, txn.Amount.StringFixed(2), txn.Category))
	return txnToResponse(txn), nil
}

// Delete removes a ledger row. When the row mirrored an order, the
// order's payment status is re-derived from the REMAINING Income rows
// tied to it — the ledger, not the payment table, is the authority on
// this path.
func (s *financeService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFoundf("transaction")
	}
	relatedOrderID := txn.RelatedOrderID

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteTx(tx, txn.ID); err != nil {
			return err
		}
		if relatedOrderID == nil {
			return nil
		}

		order, err := s.orderRepo.FindForUpdateTx(tx, *relatedOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // order already gone, nothing to reconcile
			}
			return err
		}

		remaining, err := s.repo.SumIncomeByOrderTx(tx, order.ID)
		if err != nil {
			return err
		}
		newStatus := derivePaymentStatus(remaining, order.TotalAmount)
		if newStatus != order.PaymentStatus {
			return s.orderRepo.UpdatePaymentStatusTx(tx, order.ID, newStatus)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.audit(ctx, actorID, "transaction_deleted", txn.ID,
		fmt.Sprintf("%s of %s (%s) deleted", txn.Type, txn.Amount.StringFixed(2), txn.Category))
	return nil
}

func (s *financeService) Summary(ctx context.Context, dateFrom, dateTo string) (*dto.FinanceSummary, error) {
	income, err := s.repo.SumByType(ctx, model.TxnIncome, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	expense, err := s.repo.SumByType(ctx, model.TxnExpense, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	return &dto.FinanceSummary{
		TotalIncome:  income,
		TotalExpense: expense,
		NetProfit:    income.Sub(expense),
	}, nil
}

func (s *financeService) audit(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details string) {
	if s.dispatcher == nil {
		return
	}
	et := "transaction"
	eid := entityID.String()
	_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditJobPayload{
		UserID:     actorID.String(),
		Action:     action,
		EntityType: &et,
		EntityID:   &eid,
		Details:    &details,
	})
}

func txnToResponse(t *model.Transaction) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:          t.ID.String(),
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount,
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.RelatedOrderID != nil {
		oid := t.RelatedOrderID.String()
		resp.RelatedOrderID = &oid
	}
	return resp
}

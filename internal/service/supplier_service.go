package service

import (
	"context"
	"fmt"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"
	"github.com/qureshi08/NPF-1/internal/worker"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type supplierService struct {
	repo       repository.SupplierRepository
	dispatcher *worker.Dispatcher
}

func NewSupplierService(repo repository.SupplierRepository, dispatcher *worker.Dispatcher) SupplierService {
	return &supplierService{repo: repo, dispatcher: dispatcher}
}

func (s *supplierService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}
	if err := s.repo.Create(ctx, &sup); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "supplier_created", sup.ID, fmt.Sprintf("Supplier %s created", sup.Name))
	return s.toResponse(ctx, &sup), nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("supplier")
	}
	return s.toResponse(ctx, sup), nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, *s.toResponse(ctx, &suppliers[i]))
	}
	return out, nil
}

func (s *supplierService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("supplier")
	}

	if req.Name != nil {
		sup.Name = *req.Name
	}
	if req.ContactPerson != nil {
		sup.ContactPerson = req.ContactPerson
	}
	if req.Phone != nil {
		sup.Phone = req.Phone
	}
	if req.Email != nil {
		sup.Email = req.Email
	}
	if req.Address != nil {
		sup.Address = req.Address
	}

	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "supplier_updated", sup.ID, fmt.Sprintf("Supplier %s updated", sup.Name))
	return s.toResponse(ctx, sup), nil
}

// Delete refuses to remove a supplier that still sources products.
func (s *supplierService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFoundf("supplier")
	}

	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &IntegrityError{Entity: "supplier", Reason: fmt.Sprintf("%d product(s) reference it", n)}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "supplier_deleted", sup.ID, fmt.Sprintf("Supplier %s deleted", sup.Name))
	return nil
}

func (s *supplierService) toResponse(ctx context.Context, sup *model.Supplier) *dto.SupplierResponse {
	n, _ := s.repo.CountProducts(ctx, sup.ID)
	return &dto.SupplierResponse{
		ID:            sup.ID.String(),
		Name:          sup.Name,
		ContactPerson: sup.ContactPerson,
		Phone:         sup.Phone,
		Email:         sup.Email,
		Address:       sup.Address,
		ProductCount:  n,
		CreatedAt:     sup.CreatedAt.Format(time.RFC3339),
	}
}

func (s *supplierService) audit(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details string) {
	if s.dispatcher == nil {
		return
	}
	et := "supplier"
	eid := entityID.String()
	_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditJobPayload{
		UserID:     actorID.String(),
		Action:     action,
		EntityType: &et,
		EntityID:   &eid,
		Details:    &details,
	})
}

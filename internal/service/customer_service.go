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

type CustomerService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type customerService struct {
	repo       repository.CustomerRepository
	dispatcher *worker.Dispatcher
}

func NewCustomerService(repo repository.CustomerRepository, dispatcher *worker.Dispatcher) CustomerService {
	return &customerService{repo: repo, dispatcher: dispatcher}
}

func (s *customerService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := model.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "customer_created", c.ID, fmt.Sprintf("Customer %s created", c.Name))
	return s.toResponse(ctx, &c), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("customer")
	}
	return s.toResponse(ctx, c), nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CustomerListResponse{
		Data:  make([]dto.CustomerResponse, 0, len(customers)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range customers {
		resp.Data = append(resp.Data, *s.toResponse(ctx, &customers[i]))
	}
	return resp, nil
}

func (s *customerService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("customer")
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Address != nil {
		c.Address = req.Address
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, "customer_updated", c.ID, fmt.Sprintf("Customer %s updated", c.Name))
	return s.toResponse(ctx, c), nil
}

// Delete refuses to remove a customer with order history.
func (s *customerService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFoundf("customer")
	}

	n, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &IntegrityError{Entity: "customer", Reason: fmt.Sprintf("they have %d order(s)", n)}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "customer_deleted", c.ID, fmt.Sprintf("Customer %s deleted", c.Name))
	return nil
}

func (s *customerService) toResponse(ctx context.Context, c *model.Customer) *dto.CustomerResponse {
	orderCount, _ := s.repo.CountOrders(ctx, c.ID)
	return &dto.CustomerResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		LoyaltyPoints: c.LoyaltyPoints,
		OrderCount:    orderCount,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

func (s *customerService) audit(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details string) {
	if s.dispatcher == nil {
		return
	}
	et := "customer"
	eid := entityID.String()
	_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditJobPayload{
		UserID:     actorID.String(),
		Action:     action,
		EntityType: &et,
		EntityID:   &eid,
		Details:    &details,
	})
}

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

// validJobTransitions enforces the workshop flow: jobs only move forward
// one stage at a time, except that any stage may jump to Finished.
var validJobTransitions = map[string][]string{
	model.JobQueued:     {model.JobCutting, model.JobFinished},
	model.JobCutting:    {model.JobAssembling, model.JobFinished},
	model.JobAssembling: {model.JobPolishing, model.JobFinished},
	model.JobPolishing:  {model.JobFinished},
	model.JobFinished:   {},
}

type ProductionService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateProductionJobRequest) (*dto.ProductionJobResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductionJobResponse, error)
	List(ctx context.Context, filter dto.ProductionJobFilter) (*dto.ProductionJobListResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateProductionJobRequest) (*dto.ProductionJobResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type productionService struct {
	repo       repository.ProductionRepository
	orderRepo  repository.OrderRepository
	dispatcher *worker.Dispatcher
}

func NewProductionService(
	repo repository.ProductionRepository,
	orderRepo repository.OrderRepository,
	dispatcher *worker.Dispatcher,
) ProductionService {
	return &productionService{repo: repo, orderRepo: orderRepo, dispatcher: dispatcher}
}

func (s *productionService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateProductionJobRequest) (*dto.ProductionJobResponse, error) {
	job := model.ProductionJob{
		ProductName:    req.ProductName,
		Description:    req.Description,
		StartDate:      time.Now(),
		Status:         model.JobQueued,
		AssignedWorker: req.AssignedWorker,
	}

	if req.OrderID != nil {
		oid, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("invalid order_id: %w", err)
		}
		if _, err := s.orderRepo.FindByID(ctx, oid); err != nil {
			return nil, NotFoundf("order")
		}
		job.OrderID = &oid
	}
	if req.StartDate != nil {
		d, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		job.StartDate = d
	}
	if req.DueDate != nil {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date: %w", err)
		}
		job.DueDate = &d
	}

	if err := s.repo.Create(ctx, &job); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "production_job_created", job.ID, fmt.Sprintf("Job %q queued", job.ProductName))
	return jobToResponse(&job), nil
}

func (s *productionService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductionJobResponse, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("production job")
	}
	return jobToResponse(job), nil
}

func (s *productionService) List(ctx context.Context, filter dto.ProductionJobFilter) (*dto.ProductionJobListResponse, error) {
	jobs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductionJobListResponse{
		Data:  make([]dto.ProductionJobResponse, 0, len(jobs)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range jobs {
		resp.Data = append(resp.Data, *jobToResponse(&jobs[i]))
	}
	return resp, nil
}

func (s *productionService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateProductionJobRequest) (*dto.ProductionJobResponse, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFoundf("production job")
	}

	if req.Status != nil && *req.Status != job.Status {
		if !transitionAllowed(job.Status, *req.Status) {
			return nil, fmt.Errorf("cannot move job from %s to %s", job.Status, *req.Status)
		}
		oldStatus := job.Status
		job.Status = *req.Status
		s.audit(ctx, actorID, "production_status_changed", job.ID,
			fmt.Sprintf("Job %q: %s -> %s", job.ProductName, oldStatus, job.Status))
	}
	if req.DueDate != nil {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date: %w", err)
		}
		job.DueDate = &d
	}
	if req.AssignedWorker != nil {
		job.AssignedWorker = req.AssignedWorker
	}
	if req.Description != nil {
		job.Description = req.Description
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return jobToResponse(job), nil
}

func (s *productionService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFoundf("production job")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "production_job_deleted", job.ID, fmt.Sprintf("Job %q deleted", job.ProductName))
	return nil
}

func transitionAllowed(from, to string) bool {
	for _, next := range validJobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func jobToResponse(j *model.ProductionJob) *dto.ProductionJobResponse {
	resp := &dto.ProductionJobResponse{
		ID:             j.ID.String(),
		ProductName:    j.ProductName,
		Description:    j.Description,
		StartDate:      j.StartDate.Format("2006-01-02"),
		Status:         j.Status,
		AssignedWorker: j.AssignedWorker,
		Overdue:        j.Overdue(time.Now()),
		CreatedAt:      j.CreatedAt.Format(time.RFC3339),
	}
	if j.OrderID != nil {
		oid := j.OrderID.String()
		resp.OrderID = &oid
	}
	if j.DueDate != nil {
		dd := j.DueDate.Format("2006-01-02")
		resp.DueDate = &dd
	}
	return resp
}

func (s *productionService) audit(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details string) {
	if s.dispatcher == nil {
		return
	}
	et := "production_job"
	eid := entityID.String()
	_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditJobPayload{
		UserID:     actorID.String(),
		Action:     action,
		EntityType: &et,
		EntityID:   &eid,
		Details:    &details,
	})
}

package repository

import (
	"context"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductionRepository interface {
	Create(ctx context.Context, j *model.ProductionJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionJob, error)
	List(ctx context.Context, filter dto.ProductionJobFilter) ([]model.ProductionJob, int64, error)
	Update(ctx context.Context, j *model.ProductionJob) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type productionRepo struct{ db *gorm.DB }

func NewProductionRepository(db *gorm.DB) ProductionRepository { return &productionRepo{db: db} }

func (r *productionRepo) Create(ctx context.Context, j *model.ProductionJob) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *productionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionJob, error) {
	var j model.ProductionJob
	err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error
	return &j, err
}

func (r *productionRepo) List(ctx context.Context, filter dto.ProductionJobFilter) ([]model.ProductionJob, int64, error) {
	var jobs []model.ProductionJob
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductionJob{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Overdue {
		q = q.Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", time.Now(), model.JobFinished)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("due_date ASC NULLS LAST, start_date ASC").
		Limit(filter.Limit).Offset(offset).Find(&jobs).Error
	return jobs, total, err
}

func (r *productionRepo) Update(ctx context.Context, j *model.ProductionJob) error {
	return r.db.WithContext(ctx).Save(j).Error
}

func (r *productionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductionJob{}, "id = ?", id).Error
}

func (r *productionRepo) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductionJob{}).
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", now, model.JobFinished).
		Count(&n).Error
	return n, err
}

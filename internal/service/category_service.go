package service

import (
	"context"
	"fmt"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, _ uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := model.Category{Name: req.Name, Type: req.Type}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Type: c.Type}, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		c := &categories[i]
		n, _ := s.repo.CountProducts(ctx, c.ID)
		out = append(out, dto.CategoryResponse{
			ID:           c.ID.String(),
			Name:         c.Name,
			Type:         c.Type,
			ProductCount: n,
		})
	}
	return out, nil
}

func (s *categoryService) Delete(ctx context.Context, _ uuid.UUID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return NotFoundf("category")
	}
	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &IntegrityError{Entity: "category", Reason: fmt.Sprintf("%d product(s) reference it", n)}
	}
	return s.repo.Delete(ctx, id)
}

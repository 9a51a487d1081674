package service

import (
	"context"
	"time"

	"turbo-notes-be/internal/dto"
	"turbo-notes-be/internal/entity"
	"turbo-notes-be/internal/repository/specification"
	"turbo-notes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICategoryService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CategoryResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryResponse, error)
	Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error)
}

type categoryService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCategoryService(uowFactory unitofwork.RepositoryFactory) ICategoryService {
	return &categoryService{
		uowFactory: uowFactory,
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		Id:        c.Id,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *categoryService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	color := req.Color
	if color == "" {
		color = "#FFFFFF"
	}

	category := &entity.Category{
		Id:        uuid.New(),
		Name:      req.Name,
		Color:     color,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.CategoryRepository().Create(ctx, category); err != nil {
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	category, err := uow.CategoryRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) List(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	categories, err := uow.CategoryRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = toCategoryResponse(c)
	}
	return responses, nil
}

func (s *categoryService) Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	category, err := uow.CategoryRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}

	now := time.Now()
	category.Name = req.Name
	category.Color = req.Color
	category.UpdatedAt = &now

	if err := uow.CategoryRepository().Update(ctx, category); err != nil {
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	category, err := uow.CategoryRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return false, err
	}
	if category == nil {
		return false, nil
	}

	// Notes survive their category: detach first, then remove the category.
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().ClearCategoryRefs(ctx, category.Id); err != nil {
		return false, err
	}
	if err := uow.CategoryRepository().Delete(ctx, category.Id); err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

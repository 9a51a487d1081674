package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"turbo-notes-be/internal/dto"
	"turbo-notes-be/internal/entity"
	"turbo-notes-be/internal/repository/specification"
	"turbo-notes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// resolveCategory returns the category id only when the category exists and
// belongs to the user. Anything else maps to uncategorized.
func (s *noteService) resolveCategory(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, categoryId *uuid.UUID) (*uuid.UUID, *entity.Category, error) {
	if categoryId == nil {
		return nil, nil, nil
	}
	category, err := uow.CategoryRepository().FindOne(ctx,
		specification.ByID{ID: *categoryId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, nil
	}
	return &category.Id, category, nil
}

func (s *noteService) publishActivity(ctx context.Context, userId uuid.UUID, noteId uuid.UUID, action string) {
	payload := dto.NoteActivityMessage{
		NoteId: &noteId,
		UserId: userId,
		Action: action,
	}
	msgJson, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("[WARN] Failed to marshal %s activity: %v\n", action, err)
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		fmt.Printf("[WARN] Failed to publish %s activity: %v\n", action, err)
	}
}

func toNoteResponse(n *entity.Note, category *entity.Category) *dto.NoteResponse {
	resp := &dto.NoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if category != nil {
		resp.Category = &dto.CategoryRef{
			Id:    category.Id,
			Name:  category.Name,
			Color: category.Color,
		}
	}
	return resp
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	categoryId, category, err := s.resolveCategory(ctx, uow, userId, req.CategoryId)
	if err != nil {
		return nil, err
	}

	note := &entity.Note{
		Id:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		CategoryId: categoryId,
		UserId:     userId,
		CreatedAt:  time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, userId, note.Id, entity.ActivityActionCreated)

	return toNoteResponse(note, category), nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	var category *entity.Category
	if note.CategoryId != nil {
		category, err = uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: *note.CategoryId})
		if err != nil {
			return nil, err
		}
	}

	return toNoteResponse(note, category), nil
}

func (s *noteService) List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	categories, err := uow.CategoryRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Category, len(categories))
	for _, c := range categories {
		byId[c.Id] = c
	}

	responses := make([]*dto.NoteResponse, len(notes))
	for i, n := range notes {
		var category *entity.Category
		if n.CategoryId != nil {
			category = byId[*n.CategoryId]
		}
		responses[i] = toNoteResponse(n, category)
	}
	return responses, nil
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	// A request without category_id leaves the assignment alone; only a
	// provided id reassigns (or clears, when it is unknown or foreign).
	var category *entity.Category
	if req.CategoryId != nil {
		categoryId, resolved, err := s.resolveCategory(ctx, uow, userId, req.CategoryId)
		if err != nil {
			return nil, err
		}
		note.CategoryId = categoryId
		category = resolved
	} else if note.CategoryId != nil {
		category, err = uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: *note.CategoryId})
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	note.Title = req.Title
	note.Content = req.Content
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, userId, note.Id, entity.ActivityActionUpdated)

	return toNoteResponse(note, category), nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return false, err
	}
	if note == nil {
		return false, nil
	}

	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return false, err
	}

	s.publishActivity(ctx, userId, note.Id, entity.ActivityActionDeleted)

	return true, nil
}

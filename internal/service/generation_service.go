package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"turbo-notes-be/internal/config"
	"turbo-notes-be/internal/dto"
	"turbo-notes-be/internal/entity"
	"turbo-notes-be/internal/pkg/logger"
	"turbo-notes-be/internal/repository/specification"
	"turbo-notes-be/internal/repository/unitofwork"
	"turbo-notes-be/pkg/events"
	"turbo-notes-be/pkg/llm"
	llmFactory "turbo-notes-be/pkg/llm/factory"
	pktNats "turbo-notes-be/pkg/nats"

	"github.com/google/uuid"
)

// ErrMissingAPIKey aborts generation before any provider call is made.
var ErrMissingAPIKey = errors.New("completion provider api key not configured")

const generationSystemPrompt = "You are a helpful assistant that creates short note data."

// Swapped out in tests.
var newCompletionProvider = llmFactory.NewCompletionProvider

type IGenerationService interface {
	GenerateNotes(ctx context.Context, userId uuid.UUID, req *dto.GenerateNotesRequest) (*dto.GenerateNotesResponse, error)
}

type generatedNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type generationService struct {
	uowFactory       unitofwork.RepositoryFactory
	cfg              *config.Config
	secrets          config.SecretStore
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	cfg *config.Config,
	secrets config.SecretStore,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		uowFactory:       uowFactory,
		cfg:              cfg,
		secrets:          secrets,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func generationCategoryNames() []string {
	names := make([]string, len(defaultCategories))
	for i, c := range defaultCategories {
		names[i] = c.Name
	}
	return names
}

func buildGenerationPrompt(categoryName, subject string) string {
	return fmt.Sprintf(`Create 3 short notes with a Title and Content for category: "%s". `+
		`They should be inspired by the subject: "%s". `+
		`Return them as valid JSON array of objects, e.g.:
[
  {"title":"Title A","content":"Content A"},
  {"title":"Title B","content":"Content B"},
  {"title":"Title C","content":"Content C"}
]
Keep them brief but meaningful.`, categoryName, subject)
}

func (s *generationService) GenerateNotes(ctx context.Context, userId uuid.UUID, req *dto.GenerateNotesRequest) (*dto.GenerateNotesResponse, error) {
	// The credential is read per call so a key rotated into the
	// environment is picked up without a restart.
	apiKey := s.secrets.Get(config.SecretOpenAIKey)
	if apiKey == "" {
		s.log.Error("generation", "Completion provider api key not found", nil)
		return nil, ErrMissingAPIKey
	}

	provider, err := newCompletionProvider(s.cfg.Ai.Provider, s.cfg.Ai.Model, s.providerBaseURL(), apiKey)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Subject)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	categories, err := uow.CategoryRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.ByNames{Names: generationCategoryNames()},
	)
	if err != nil {
		return nil, err
	}

	// note_ids stays a JSON array even when nothing gets created.
	created := []uuid.UUID{}
	for _, category := range categories {
		notes, genErr := s.generateForCategory(ctx, provider, category.Name, subject)
		if genErr != nil {
			// One category failing must not sink the others.
			s.log.Error("generation", "Completion request failed", map[string]interface{}{
				"category": category.Name,
				"error":    genErr.Error(),
			})
			continue
		}

		for _, n := range notes {
			note := &entity.Note{
				Id:         uuid.New(),
				Title:      n.Title,
				Content:    n.Content,
				CategoryId: &category.Id,
				UserId:     userId,
				CreatedAt:  time.Now(),
			}
			if err := uow.NoteRepository().Create(ctx, note); err != nil {
				s.log.Error("generation", "Failed to persist generated note", map[string]interface{}{
					"category": category.Name,
					"error":    err.Error(),
				})
				continue
			}
			created = append(created, note.Id)
			s.publishActivity(ctx, userId, note.Id)
		}
	}

	s.log.Info("generation", "LLM notes created", map[string]interface{}{
		"subject": subject,
		"count":   len(created),
	})

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "NOTES_GENERATED",
			Data: map[string]interface{}{
				"user_id": userId,
				"subject": subject,
				"count":   len(created),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish NOTES_GENERATED event: %v\n", err)
		}
	}

	return &dto.GenerateNotesResponse{
		Message: fmt.Sprintf(`Successfully created notes inspired by "%s" (total %d).`, subject, len(created)),
		Count:   len(created),
		NoteIds: created,
	}, nil
}

func (s *generationService) providerBaseURL() string {
	if s.cfg.Ai.Provider == "ollama" {
		return s.cfg.Ai.OllamaBaseURL
	}
	return s.cfg.Ai.OpenAIBaseURL
}

func (s *generationService) generateForCategory(ctx context.Context, provider llm.CompletionProvider, categoryName, subject string) ([]generatedNote, error) {
	history := []llm.Message{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: buildGenerationPrompt(categoryName, subject)},
	}

	raw, err := provider.Chat(ctx, history, llm.WithTemperature(0.7))
	if err != nil {
		return nil, err
	}

	var parsed []generatedNote
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("completion is not a valid json array: %w", err)
	}

	notes := make([]generatedNote, 0, len(parsed))
	for _, n := range parsed {
		title := strings.TrimSpace(n.Title)
		content := strings.TrimSpace(n.Content)
		if title == "" || content == "" {
			continue
		}
		notes = append(notes, generatedNote{Title: title, Content: content})
	}
	return notes, nil
}

func (s *generationService) publishActivity(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) {
	payload := dto.NoteActivityMessage{
		NoteId: &noteId,
		UserId: userId,
		Action: entity.ActivityActionGenerated,
	}
	msgJson, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		fmt.Printf("[WARN] Failed to publish generated activity: %v\n", err)
	}
}

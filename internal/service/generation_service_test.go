package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"turbo-notes-be/internal/config"
	"turbo-notes-be/internal/dto"
	"turbo-notes-be/internal/entity"
	"turbo-notes-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validNotesJSON = `[
  {"title":"Title A","content":"Content A"},
  {"title":"Title B","content":"Content B"},
  {"title":"Title C","content":"Content C"}
]`

func testConfig() *config.Config {
	return &config.Config{
		Ai: config.AIConfig{
			Provider: "openai",
			Model:    "gpt-4",
		},
	}
}

func seedDefaultCategories(uow *fakeUow, userId uuid.UUID) map[string]uuid.UUID {
	ids := make(map[string]uuid.UUID)
	for _, c := range defaultCategories {
		category := &entity.Category{
			Id:        uuid.New(),
			Name:      c.Name,
			Color:     c.Color,
			UserId:    userId,
			CreatedAt: time.Now(),
		}
		_ = uow.categoryRepo.Create(context.Background(), category)
		ids[c.Name] = category.Id
	}
	return ids
}

func newGenerationFixture(t *testing.T, provider *fakeProvider, apiKey string) (IGenerationService, *fakeUow, *fakePublisher) {
	t.Helper()

	uow := newFakeUow()
	publisher := &fakePublisher{}
	secrets := &fakeSecrets{values: map[string]string{}}
	if apiKey != "" {
		secrets.values[config.SecretOpenAIKey] = apiKey
	}

	orig := newCompletionProvider
	newCompletionProvider = func(_, _, _, _ string) (llm.CompletionProvider, error) {
		return provider, nil
	}
	t.Cleanup(func() { newCompletionProvider = orig })

	svc := NewGenerationService(&fakeUowFactory{uow: uow}, testConfig(), secrets, publisher, nil, nopLogger{})
	return svc, uow, publisher
}

func TestGenerateNotesMissingAPIKey(t *testing.T) {
	provider := &fakeProvider{fallback: validNotesJSON}
	svc, uow, _ := newGenerationFixture(t, provider, "")

	userId := uuid.New()
	seedDefaultCategories(uow, userId)

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "space"})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Empty(t, uow.noteRepo.notes, "no notes may be written without a credential")
	assert.Empty(t, provider.calls, "no provider call may happen without a credential")
}

func TestGenerateNotesCreatesThreePerCategory(t *testing.T) {
	provider := &fakeProvider{fallback: validNotesJSON}
	svc, uow, publisher := newGenerationFixture(t, provider, "sk-test")

	userId := uuid.New()
	categoryIds := seedDefaultCategories(uow, userId)

	// A user-made category must never receive generated notes.
	_ = uow.categoryRepo.Create(context.Background(), &entity.Category{
		Id:     uuid.New(),
		Name:   "Work",
		Color:  "#000000",
		UserId: userId,
	})

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "the ocean"})
	require.NoError(t, err)

	assert.Equal(t, 9, res.Count)
	assert.Len(t, res.NoteIds, 9)
	assert.Equal(t, `Successfully created notes inspired by "the ocean" (total 9).`, res.Message)
	assert.Len(t, provider.calls, 3)

	perCategory := make(map[uuid.UUID]int)
	for _, n := range uow.noteRepo.notes {
		require.NotNil(t, n.CategoryId)
		require.Equal(t, userId, n.UserId)
		perCategory[*n.CategoryId]++
	}
	for name, id := range categoryIds {
		assert.Equal(t, 3, perCategory[id], "category %s should get 3 notes", name)
	}

	assert.Len(t, publisher.published(), 9, "one activity message per generated note")
}

func TestGenerateNotesSubjectIsTrimmed(t *testing.T) {
	provider := &fakeProvider{fallback: validNotesJSON}
	svc, uow, _ := newGenerationFixture(t, provider, "sk-test")

	userId := uuid.New()
	seedDefaultCategories(uow, userId)

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "  gardening  "})
	require.NoError(t, err)
	assert.Equal(t, `Successfully created notes inspired by "gardening" (total 9).`, res.Message)
}

func TestGenerateNotesOneCategoryFailing(t *testing.T) {
	provider := &fakeProvider{
		fallback: validNotesJSON,
		responses: map[string]string{
			`category: "School"`: `not json at all`,
		},
	}
	svc, uow, _ := newGenerationFixture(t, provider, "sk-test")

	userId := uuid.New()
	seedDefaultCategories(uow, userId)

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "exams"})
	require.NoError(t, err, "one bad category must not fail the request")

	assert.Equal(t, 6, res.Count)
	assert.Len(t, uow.noteRepo.notes, 6)
	assert.Len(t, provider.calls, 3, "remaining categories are still attempted")
}

func TestGenerateNotesProviderDown(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	svc, uow, _ := newGenerationFixture(t, provider, "sk-test")

	userId := uuid.New()
	seedDefaultCategories(uow, userId)

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "anything"})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Count)
	assert.Empty(t, uow.noteRepo.notes)
	assert.Equal(t, `Successfully created notes inspired by "anything" (total 0).`, res.Message)
}

func TestGenerateNotesFiltersIncompleteEntries(t *testing.T) {
	provider := &fakeProvider{fallback: `[
	  {"title":"  Kept  ","content":"  body  "},
	  {"title":"","content":"orphan content"},
	  {"title":"orphan title","content":"   "}
	]`}
	svc, uow, _ := newGenerationFixture(t, provider, "sk-test")

	userId := uuid.New()
	seedDefaultCategories(uow, userId)

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "edge cases"})
	require.NoError(t, err)

	// One usable entry per category.
	assert.Equal(t, 3, res.Count)
	for _, n := range uow.noteRepo.notes {
		assert.Equal(t, "Kept", n.Title)
		assert.Equal(t, "body", n.Content)
	}
}

func TestGenerateNotesNoEligibleCategories(t *testing.T) {
	provider := &fakeProvider{fallback: validNotesJSON}
	svc, uow, _ := newGenerationFixture(t, provider, "sk-test")

	userId := uuid.New()
	// Only a custom category, none from the allow-list.
	_ = uow.categoryRepo.Create(context.Background(), &entity.Category{
		Id:     uuid.New(),
		Name:   "Recipes",
		Color:  "#ABCDEF",
		UserId: userId,
	})

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "pasta"})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.NoteIds, "note_ids must marshal as an empty array, not null")
	assert.Empty(t, provider.calls)
}

func TestGenerateNotesIgnoresOtherUsersCategories(t *testing.T) {
	provider := &fakeProvider{fallback: validNotesJSON}
	svc, uow, _ := newGenerationFixture(t, provider, "sk-test")

	userId := uuid.New()
	otherUser := uuid.New()
	seedDefaultCategories(uow, otherUser)

	res, err := svc.GenerateNotes(context.Background(), userId, &dto.GenerateNotesRequest{Subject: "privacy"})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Count)
	for _, n := range uow.noteRepo.notes {
		assert.NotEqual(t, otherUser, n.UserId)
	}
}

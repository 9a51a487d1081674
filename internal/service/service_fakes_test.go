package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"turbo-notes-be/internal/entity"
	"turbo-notes-be/internal/repository/contract"
	"turbo-notes-be/internal/repository/specification"
	"turbo-notes-be/internal/repository/unitofwork"
	"turbo-notes-be/pkg/llm"

	"github.com/google/uuid"
)

// The in-memory fakes interpret the same specifications the GORM
// implementations do, so ownership filtering behaves like production.

type specFilter struct {
	id         *uuid.UUID
	userId     *uuid.UUID
	email      *string
	names      []string
	orderField string
	orderDesc  bool
}

func parseSpecs(specs []specification.Specification) specFilter {
	var f specFilter
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			f.id = &id
		case specification.OwnedBy:
			userId := v.UserID
			f.userId = &userId
		case specification.ByEmail:
			email := v.Email
			f.email = &email
		case specification.ByNames:
			f.names = v.Names
		case specification.OrderBy:
			f.orderField = v.Field
			f.orderDesc = v.Desc
		}
	}
	return f
}

func (f specFilter) matchesNames(name string) bool {
	if f.names == nil {
		return true
	}
	for _, n := range f.names {
		if n == name {
			return true
		}
	}
	return false
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.Id == user.Id {
			cp := *user
			r.users[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	for _, u := range r.users {
		if f.id != nil && u.Id != *f.id {
			continue
		}
		if f.email != nil && u.Email != *f.email {
			continue
		}
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories []*entity.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *category
	r.categories = append(r.categories, &cp)
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.categories {
		if c.Id == category.Id {
			cp := *category
			r.categories[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.categories[:0]
	for _, c := range r.categories {
		if c.Id != id {
			kept = append(kept, c)
		}
	}
	r.categories = kept
	return nil
}

func (r *fakeCategoryRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	for _, c := range r.categories {
		if f.id != nil && c.Id != *f.id {
			continue
		}
		if f.userId != nil && c.UserId != *f.userId {
			continue
		}
		if !f.matchesNames(c.Name) {
			continue
		}
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.Category
	for _, c := range r.categories {
		if f.userId != nil && c.UserId != *f.userId {
			continue
		}
		if !f.matchesNames(c.Name) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(context.Background(), specs...)
	return int64(len(all)), nil
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes []*entity.Note
}

func (r *fakeNoteRepo) Create(_ context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *note
	r.notes = append(r.notes, &cp)
	return nil
}

func (r *fakeNoteRepo) Update(_ context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notes {
		if n.Id == note.Id {
			cp := *note
			r.notes[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notes[:0]
	for _, n := range r.notes {
		if n.Id != id {
			kept = append(kept, n)
		}
	}
	r.notes = kept
	return nil
}

func (r *fakeNoteRepo) ClearCategoryRefs(_ context.Context, categoryId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.CategoryId != nil && *n.CategoryId == categoryId {
			n.CategoryId = nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	for _, n := range r.notes {
		if f.id != nil && n.Id != *f.id {
			continue
		}
		if f.userId != nil && n.UserId != *f.userId {
			continue
		}
		cp := *n
		return &cp, nil
	}
	return nil, nil
}

// noteSortKey mirrors the database, where updated_at is populated on
// insert and only moves forward afterwards.
func noteSortKey(n *entity.Note, field string) time.Time {
	if field == "updated_at" && n.UpdatedAt != nil {
		return *n.UpdatedAt
	}
	return n.CreatedAt
}

func (r *fakeNoteRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.Note
	for _, n := range r.notes {
		if f.userId != nil && n.UserId != *f.userId {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	if f.orderField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a := noteSortKey(out[i], f.orderField)
			b := noteSortKey(out[j], f.orderField)
			if f.orderDesc {
				return a.After(b)
			}
			return a.Before(b)
		})
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(context.Background(), specs...)
	return int64(len(all)), nil
}

type fakeActivityLogRepo struct {
	mu   sync.Mutex
	logs []*entity.ActivityLog
}

func (r *fakeActivityLogRepo) Create(_ context.Context, log *entity.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *log
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *fakeActivityLogRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.ActivityLog, len(r.logs))
	copy(out, r.logs)
	return out, nil
}

type fakeUow struct {
	userRepo     *fakeUserRepo
	categoryRepo *fakeCategoryRepo
	noteRepo     *fakeNoteRepo
	activityRepo *fakeActivityLogRepo

	begins    int
	commits   int
	rollbacks int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		userRepo:     &fakeUserRepo{},
		categoryRepo: &fakeCategoryRepo{},
		noteRepo:     &fakeNoteRepo{},
		activityRepo: &fakeActivityLogRepo{},
	}
}

func (u *fakeUow) Begin(_ context.Context) error { u.begins++; return nil }
func (u *fakeUow) Commit() error                 { u.commits++; return nil }
func (u *fakeUow) Rollback() error               { u.rollbacks++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository               { return u.userRepo }
func (u *fakeUow) CategoryRepository() contract.CategoryRepository       { return u.categoryRepo }
func (u *fakeUow) NoteRepository() contract.NoteRepository               { return u.noteRepo }
func (u *fakeUow) ActivityLogRepository() contract.ActivityLogRepository { return u.activityRepo }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.payloads))
	copy(out, p.payloads)
	return out
}

type fakeProvider struct {
	mu        sync.Mutex
	responses map[string]string // matched by substring of the user prompt
	fallback  string
	err       error
	calls     []string
}

func (p *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prompt := history[len(history)-1].Content
	p.calls = append(p.calls, prompt)
	if p.err != nil {
		return "", p.err
	}
	for key, resp := range p.responses {
		if key != "" && strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return p.fallback, nil
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakeSecrets struct {
	values map[string]string
}

func (s *fakeSecrets) Get(name string) string {
	return s.values[name]
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []string
}

func (s *fakeEmailService) SendWelcome(toEmail, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, toEmail)
	return nil
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: make(map[string]time.Duration)}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = ttl
	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

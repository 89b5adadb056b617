package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	findErr error // if set, FindByEmail/FindByID return this error
	// skipPreCheck makes FindByEmail miss, simulating a concurrent registration
	// that inserted between the pre-check and Create.
	skipPreCheck bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.skipPreCheck {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// add inserts a user directly, bypassing hashing.
func (r *stubUserRepo) add(id, username string, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = &domain.User{ID: id, Username: username, Email: username + "@example.com", Role: role}
}

type stubTokenRepo struct {
	records []*domain.TokenRecord
	saveErr error
}

func (r *stubTokenRepo) Save(_ context.Context, record *domain.TokenRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	clone := *record
	r.records = append(r.records, &clone)
	return nil
}

type stubProfileRepo struct {
	byUser    map[string]*domain.Profile
	upsertErr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byUser: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) Upsert(_ context.Context, p *domain.Profile) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	clone := *p
	r.byUser[p.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *p
	return &clone, nil
}

type stubBlogRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Blog
	nextID    int
	createErr error
	lastList  ports.ListBlogsFilter
	deleted   []string
}

func newStubBlogRepo() *stubBlogRepo {
	return &stubBlogRepo{byID: make(map[string]*domain.Blog)}
}

func cloneBlog(b *domain.Blog) *domain.Blog {
	clone := *b
	clone.Tags = append([]string(nil), b.Tags...)
	return &clone
}

func (r *stubBlogRepo) Create(_ context.Context, b *domain.Blog) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	created := cloneBlog(b)
	created.ID = fmt.Sprintf("blog-%d", r.nextID)
	r.byID[created.ID] = cloneBlog(created)
	return created, nil
}

func (r *stubBlogRepo) FindByID(_ context.Context, id string) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	return cloneBlog(b), nil
}

func (r *stubBlogRepo) Update(_ context.Context, id string, f ports.BlogFields) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	if f.Title != nil {
		b.Title = *f.Title
	}
	if f.Content != nil {
		b.Content = *f.Content
	}
	if f.Tags != nil {
		b.Tags = f.Tags
	}
	return cloneBlog(b), nil
}

func (r *stubBlogRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrBlogNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubBlogRepo) List(_ context.Context, f ports.ListBlogsFilter) ([]*domain.Blog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f

	var matched []*domain.Blog
	for i := 1; i <= r.nextID; i++ {
		b, ok := r.byID[fmt.Sprintf("blog-%d", i)]
		if !ok {
			continue
		}
		if f.AuthorID != "" && b.AuthorID != f.AuthorID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(b.Title+" "+b.Content), strings.ToLower(f.Search)) {
			continue
		}
		if f.Tag != "" && !contains(b.Tags, f.Tag) {
			continue
		}
		matched = append(matched, cloneBlog(b))
	}

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Blog{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubBlogRepo) IncrementField(_ context.Context, id, field string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return domain.ErrBlogNotFound
	}
	switch field {
	case domain.FieldLikes:
		b.Likes += delta
	case domain.FieldViews:
		b.Views += delta
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type stubIdempotencyStore struct {
	keys     map[string]string
	claimErr error
	released []string
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{keys: make(map[string]string)}
}

func (s *stubIdempotencyStore) Claim(_ context.Context, actorID, key string) (string, error) {
	if s.claimErr != nil {
		return "", s.claimErr
	}
	k := actorID + ":" + key
	if id, ok := s.keys[k]; ok {
		if id == "" {
			return "", domain.ErrRequestInProgress
		}
		return id, nil
	}
	s.keys[k] = ""
	return "", nil
}

func (s *stubIdempotencyStore) Bind(_ context.Context, actorID, key, blogID string) error {
	s.keys[actorID+":"+key] = blogID
	return nil
}

func (s *stubIdempotencyStore) Release(_ context.Context, actorID, key string) error {
	delete(s.keys, actorID+":"+key)
	s.released = append(s.released, key)
	return nil
}

type stubViewRecorder struct {
	views []string
}

func (v *stubViewRecorder) RecordView(blogID string) {
	v.views = append(v.views, blogID)
}

package ports

import (
	"context"

	"github.com/g6blog/blog-api/internal/core/domain"
)

// ListBlogsFilter carries all query parameters for listing blogs.
type ListBlogsFilter struct {
	Search   string // optional: full-text search over title and content
	AuthorID string // optional
	Tag      string // optional
	Page     int    // 1-based
	Limit    int
}

// BlogFields is a partial update. Nil fields are left untouched.
type BlogFields struct {
	Title   *string
	Content *string
	Tags    []string
}

// Empty reports whether the update changes nothing.
func (f BlogFields) Empty() bool {
	return f.Title == nil && f.Content == nil && f.Tags == nil
}

// BlogRepository defines persistence operations for blogs.
// Lookups of unknown ids return domain.ErrBlogNotFound.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	FindByID(ctx context.Context, id string) (*domain.Blog, error)
	Update(ctx context.Context, id string, fields BlogFields) (*domain.Blog, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of blogs matching filter and the total count.
	List(ctx context.Context, filter ListBlogsFilter) ([]*domain.Blog, int64, error)
	// IncrementField atomically adds delta to a counter field.
	IncrementField(ctx context.Context, id, field string, delta int64) error
}

// IdempotencyStore remembers which blog a client-supplied Idempotency-Key created.
type IdempotencyStore interface {
	// Claim reserves key for the actor. It returns the blog id already bound to
	// the key, or "" when the caller now owns the key and must create the blog.
	Claim(ctx context.Context, actorID, key string) (string, error)
	// Bind associates a claimed key with the created blog id.
	Bind(ctx context.Context, actorID, key, blogID string) error
	// Release drops a claim whose blog could not be created.
	Release(ctx context.Context, actorID, key string) error
}

// ViewRecorder counts blog reads off the request path.
type ViewRecorder interface {
	RecordView(blogID string)
}

package ports

import (
	"context"

	"github.com/g6blog/blog-api/internal/core/domain"
)

type CreateBlogInput struct {
	Title          string
	Content        string
	Tags           []string
	IdempotencyKey string
}

// CreateBlogResult wraps the created blog.
type CreateBlogResult struct {
	Blog *domain.Blog
	// AlreadyExisted is true when the Idempotency-Key matched an earlier creation.
	AlreadyExisted bool
}

type UpdateBlogInput struct {
	Title   string
	Content string
	Tags    []string
}

type ListBlogsInput struct {
	Search   string
	AuthorID string
	Tag      string
	Page     int
	Limit    int
}

type ListBlogsResult struct {
	Items      []*domain.Blog
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BlogService defines use-case operations for blogs. Mutations take the
// authenticated principal as the actor.
type BlogService interface {
	CreateBlog(ctx context.Context, actor domain.Principal, input CreateBlogInput) (*CreateBlogResult, error)
	GetBlog(ctx context.Context, id string) (*domain.Blog, error)
	ListBlogs(ctx context.Context, input ListBlogsInput) (*ListBlogsResult, error)
	UpdateBlog(ctx context.Context, actor domain.Principal, id string, input UpdateBlogInput) (*domain.Blog, error)
	DeleteBlog(ctx context.Context, actor domain.Principal, id string) error
	LikeBlog(ctx context.Context, id string) error
}

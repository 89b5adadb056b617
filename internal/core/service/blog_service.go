package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 100000
)

type BlogService struct {
	repo  ports.BlogRepository
	users ports.UserRepository
	idem  ports.IdempotencyStore // optional
	views ports.ViewRecorder     // optional
	log   zerolog.Logger
}

func NewBlogService(
	repo ports.BlogRepository,
	users ports.UserRepository,
	idem ports.IdempotencyStore,
	views ports.ViewRecorder,
	log zerolog.Logger,
) *BlogService {
	return &BlogService{repo: repo, users: users, idem: idem, views: views, log: log}
}

// AuthorizeMutation returns domain.ErrForbidden unless actor may mutate a
// resource owned by ownerID.
func AuthorizeMutation(actor domain.Principal, ownerID string) error {
	if !domain.CanMutate(actor.SubjectID, actor.Role, ownerID) {
		return domain.ErrForbidden
	}
	return nil
}

// CreateBlog publishes a new post owned by actor. If an idempotency key is
// provided and already bound, the previously created post is returned.
func (s *BlogService) CreateBlog(ctx context.Context, actor domain.Principal, in ports.CreateBlogInput) (*ports.CreateBlogResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrValidation)
	}

	claimed := false
	if in.IdempotencyKey != "" && s.idem != nil {
		existingID, err := s.idem.Claim(ctx, actor.SubjectID, in.IdempotencyKey)
		switch {
		case errors.Is(err, domain.ErrRequestInProgress):
			return nil, err
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency check failed, processing anyway")
		case existingID != "":
			existing, err := s.repo.FindByID(ctx, existingID)
			if err != nil {
				return nil, lookupError("create blog: replay", err)
			}
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("blog_id", existingID).Msg("idempotent replay")
			return &ports.CreateBlogResult{Blog: existing, AlreadyExisted: true}, nil
		default:
			claimed = true
		}
	}

	blog := &domain.Blog{
		Title:     title,
		Content:   in.Content,
		AuthorID:  actor.SubjectID,
		Tags:      normalizeTags(in.Tags),
		CreatedAt: time.Now().UTC(),
	}
	if author, err := s.users.FindByID(ctx, actor.SubjectID); err == nil {
		blog.Author = author.Username
	} else {
		s.log.Warn().Err(err).Str("user_id", actor.SubjectID).Msg("author lookup failed")
	}

	created, err := s.repo.Create(ctx, blog)
	if err != nil {
		if claimed {
			if relErr := s.idem.Release(ctx, actor.SubjectID, in.IdempotencyKey); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return nil, storeError("create blog", err)
	}

	if claimed {
		if err := s.idem.Bind(ctx, actor.SubjectID, in.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to bind idempotency key")
		}
	}

	s.log.Info().Str("blog_id", created.ID).Str("author_id", actor.SubjectID).Msg("blog created")
	return &ports.CreateBlogResult{Blog: created}, nil
}

// GetBlog returns a post and counts the read.
func (s *BlogService) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("get blog", err)
	}
	if s.views != nil {
		s.views.RecordView(blog.ID)
	}
	return blog, nil
}

func (s *BlogService) ListBlogs(ctx context.Context, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return nil, fmt.Errorf("%w: page must be at most %d", domain.ErrValidation, maxPage)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.ListBlogsFilter{
		Search:   strings.TrimSpace(in.Search),
		AuthorID: in.AuthorID,
		Tag:      strings.ToLower(strings.TrimSpace(in.Tag)),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, storeError("list blogs", err)
	}
	if items == nil {
		items = []*domain.Blog{}
	}

	return &ports.ListBlogsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// UpdateBlog applies the non-empty fields of in. Only the owner or an admin may update.
func (s *BlogService) UpdateBlog(ctx context.Context, actor domain.Principal, id string, in ports.UpdateBlogInput) (*domain.Blog, error) {
	current, err := s.guard(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	var fields ports.BlogFields
	if title := strings.TrimSpace(in.Title); title != "" {
		fields.Title = &title
	}
	if strings.TrimSpace(in.Content) != "" {
		fields.Content = &in.Content
	}
	if in.Tags != nil {
		fields.Tags = normalizeTags(in.Tags)
	}
	if fields.Empty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, lookupError("update blog", err)
	}
	s.log.Info().Str("blog_id", id).Str("actor_id", actor.SubjectID).Msg("blog updated")
	return updated, nil
}

// DeleteBlog removes a post. Only the owner or an admin may delete.
func (s *BlogService) DeleteBlog(ctx context.Context, actor domain.Principal, id string) error {
	if _, err := s.guard(ctx, actor, id, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError("delete blog", err)
	}
	s.log.Info().Str("blog_id", id).Str("actor_id", actor.SubjectID).Msg("blog deleted")
	return nil
}

// LikeBlog increments the like counter. Any authenticated user may like any
// post, any number of times.
func (s *BlogService) LikeBlog(ctx context.Context, id string) error {
	if err := s.repo.IncrementField(ctx, id, domain.FieldLikes, 1); err != nil {
		return lookupError("like blog", err)
	}
	return nil
}

// guard loads the blog and applies the mutation policy. Not-found and
// forbidden stay distinct.
func (s *BlogService) guard(ctx context.Context, actor domain.Principal, id, op string) (*domain.Blog, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(op+" blog", err)
	}
	if err := AuthorizeMutation(actor, blog.AuthorID); err != nil {
		s.log.Warn().
			Str("blog_id", id).
			Str("actor_id", actor.SubjectID).
			Str("owner_id", blog.AuthorID).
			Str("operation", op).
			Msg("mutation denied")
		return nil, err
	}
	return blog, nil
}

func lookupError(op string, err error) error {
	if errors.Is(err, domain.ErrBlogNotFound) {
		return err
	}
	return storeError(op, err)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

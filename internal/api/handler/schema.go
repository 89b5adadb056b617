package handler

import (
	"time"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID string `json:"user_id"`
}

// --- Blogs ---

type createBlogRequest struct {
	Title   string   `json:"title"   validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"    validate:"max=10,dive,max=32"`
}

type updateBlogRequest struct {
	Title   string   `json:"title"   validate:"max=200"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"    validate:"max=10,dive,max=32"`
}

type blogResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AuthorID  string     `json:"author_id"`
	Author    string     `json:"author,omitempty"`
	Tags      []string   `json:"tags"`
	Views     int64      `json:"views"`
	Likes     int64      `json:"likes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type listBlogsResponse struct {
	Items      []blogResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// --- Profiles ---

type updateProfileRequest struct {
	Bio    string `json:"bio"    validate:"max=500"`
	Avatar string `json:"avatar" validate:"omitempty,url,max=2048"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=User Admin"`
}

// --- AI ---

type generateRequest struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

type generateResponse struct {
	Content string `json:"content"`
}

func toBlogResponse(b *domain.Blog) blogResponse {
	resp := blogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		AuthorID:  b.AuthorID,
		Author:    b.Author,
		Tags:      b.Tags,
		Views:     b.Views,
		Likes:     b.Likes,
		CreatedAt: b.CreatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if !b.UpdatedAt.IsZero() {
		updated := b.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

func toListBlogsResponse(res *ports.ListBlogsResult) listBlogsResponse {
	items := make([]blogResponse, 0, len(res.Items))
	for _, b := range res.Items {
		items = append(items, toBlogResponse(b))
	}
	return listBlogsResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
}

func toProfileResponse(p *ports.ProfileView) profileResponse {
	return profileResponse{ID: p.ID, Username: p.Username, Bio: p.Bio, Avatar: p.Avatar}
}

package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/g6blog/blog-api/internal/api/middleware"
	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

type stubBlogService struct {
	createFn func(ctx context.Context, actor domain.Principal, in ports.CreateBlogInput) (*ports.CreateBlogResult, error)
	getFn    func(ctx context.Context, id string) (*domain.Blog, error)
	listFn   func(ctx context.Context, in ports.ListBlogsInput) (*ports.ListBlogsResult, error)
	updateFn func(ctx context.Context, actor domain.Principal, id string, in ports.UpdateBlogInput) (*domain.Blog, error)
	deleteFn func(ctx context.Context, actor domain.Principal, id string) error
	likeFn   func(ctx context.Context, id string) error
}

func (s *stubBlogService) CreateBlog(ctx context.Context, actor domain.Principal, in ports.CreateBlogInput) (*ports.CreateBlogResult, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubBlogService) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	return s.getFn(ctx, id)
}

func (s *stubBlogService) ListBlogs(ctx context.Context, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubBlogService) UpdateBlog(ctx context.Context, actor domain.Principal, id string, in ports.UpdateBlogInput) (*domain.Blog, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubBlogService) DeleteBlog(ctx context.Context, actor domain.Principal, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubBlogService) LikeBlog(ctx context.Context, id string) error {
	return s.likeFn(ctx, id)
}

type stubUserService struct {
	getFn        func(ctx context.Context, userID string) (*ports.ProfileView, error)
	updateFn     func(ctx context.Context, userID string, in ports.UpdateProfileInput) (*ports.ProfileView, error)
	changeRoleFn func(ctx context.Context, userID string, role domain.Role) error
}

func (s *stubUserService) GetProfile(ctx context.Context, userID string) (*ports.ProfileView, error) {
	return s.getFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*ports.ProfileView, error) {
	return s.updateFn(ctx, userID, in)
}

func (s *stubUserService) ChangeRole(ctx context.Context, userID string, role domain.Role) error {
	return s.changeRoleFn(ctx, userID, role)
}

type stubAIService struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (s *stubAIService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return s.generateFn(ctx, prompt)
}

// newContext builds an echo context with the validator installed and a JSON body.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate sets the values the Auth middleware would set.
func authenticate(c echo.Context, userID string, role domain.Role) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, string(role))
	c.Set(middleware.CtxTokenID, "jti-"+userID)
}

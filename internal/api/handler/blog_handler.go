package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/g6blog/blog-api/internal/api/metrics"
	"github.com/g6blog/blog-api/internal/core/ports"
)

// BlogHandler handles HTTP requests for blog operations.
type BlogHandler struct {
	service ports.BlogService
}

func NewBlogHandler(service ports.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// List handles GET /api/blogs.
//
// @Summary      List blogs
// @Tags         blogs
// @Produce      json
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Param        q          query     string  false  "Full-text search over title and content"
// @Param        author_id  query     string  false  "Filter by author"
// @Param        tag        query     string  false  "Filter by tag"
// @Success      200        {object}  listBlogsResponse
// @Failure      400        {object}  errorResponse
// @Router       /api/blogs [get]
func (h *BlogHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	res, err := h.service.ListBlogs(c.Request().Context(), ports.ListBlogsInput{
		Search:   c.QueryParam("q"),
		AuthorID: c.QueryParam("author_id"),
		Tag:      c.QueryParam("tag"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBlogsResponse(res))
}

// Get handles GET /api/blogs/:id.
//
// @Summary      Get a blog
// @Tags         blogs
// @Produce      json
// @Param        id   path      string  true  "Blog ID"
// @Success      200  {object}  blogResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/blogs/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	blog, err := h.service.GetBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBlogResponse(blog))
}

// Create handles POST /api/blogs.
//
// @Summary      Create a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the earlier result for a repeated key"
// @Param        body             body      createBlogRequest  true   "Blog content"
// @Success      201              {object}  blogResponse
// @Success      200              {object}  blogResponse  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createBlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.BlogMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return err
	}

	res, err := h.service.CreateBlog(c.Request().Context(), actor, ports.CreateBlogInput{
		Title:          req.Title,
		Content:        req.Content,
		Tags:           req.Tags,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		metrics.BlogMutationsTotal.WithLabelValues("create", outcome(err)).Inc()
		return err
	}

	if res.AlreadyExisted {
		metrics.BlogMutationsTotal.WithLabelValues("create", "replayed").Inc()
		return c.JSON(http.StatusOK, toBlogResponse(res.Blog))
	}
	metrics.BlogMutationsTotal.WithLabelValues("create", "success").Inc()
	return c.JSON(http.StatusCreated, toBlogResponse(res.Blog))
}

// Update handles PUT /api/blogs/:id. Only the author or an Admin may update.
//
// @Summary      Update a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Blog ID"
// @Param        body  body      updateBlogRequest  true  "Fields to change"
// @Success      200   {object}  blogResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/blogs/{id} [put]
func (h *BlogHandler) Update(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateBlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.BlogMutationsTotal.WithLabelValues("update", "invalid").Inc()
		return err
	}

	blog, err := h.service.UpdateBlog(c.Request().Context(), actor, c.Param("id"), ports.UpdateBlogInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	metrics.BlogMutationsTotal.WithLabelValues("update", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBlogResponse(blog))
}

// Delete handles DELETE /api/blogs/:id. Only the author or an Admin may delete.
//
// @Summary      Delete a blog
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Blog ID"
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/blogs/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	err = h.service.DeleteBlog(c.Request().Context(), actor, c.Param("id"))
	metrics.BlogMutationsTotal.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// Like handles POST /api/blogs/:id/like.
//
// @Summary      Like a blog
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Blog ID"
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/blogs/{id}/like [post]
func (h *BlogHandler) Like(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	if err := h.service.LikeBlog(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.BlogLikesTotal.Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "liked"})
}

// queryInt parses an optional integer query parameter; absent means zero.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}

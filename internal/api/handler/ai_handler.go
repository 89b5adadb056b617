package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/g6blog/blog-api/internal/core/ports"
)

type AIHandler struct {
	service ports.AIService
}

func NewAIHandler(service ports.AIService) *AIHandler {
	return &AIHandler{service: service}
}

// Generate handles POST /api/ai/generate.
//
// @Summary      Generate blog content from a prompt
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateRequest  true  "Prompt"
// @Success      200   {object}  generateResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/ai/generate [post]
func (h *AIHandler) Generate(c echo.Context) error {
	var req generateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	content, err := h.service.GenerateContent(c.Request().Context(), req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, generateResponse{Content: content})
}

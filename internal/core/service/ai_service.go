package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

const maxPromptLength = 2000

// MockGenerator stands in for a real language model backend.
type MockGenerator struct{}

func (MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("AI Generated content for: %s. (Integration requires API Key)", prompt), nil
}

type AIService struct {
	generator ports.ContentGenerator
}

func NewAIService(generator ports.ContentGenerator) *AIService {
	return &AIService{generator: generator}
}

func (s *AIService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt required", domain.ErrValidation)
	}
	if len(prompt) > maxPromptLength {
		return "", fmt.Errorf("%w: prompt exceeds %d characters", domain.ErrValidation, maxPromptLength)
	}
	return s.generator.Generate(ctx, prompt)
}

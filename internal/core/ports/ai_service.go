package ports

import "context"

// ContentGenerator produces text from a prompt.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AIService interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

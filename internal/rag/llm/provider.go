package llm

import "context"

// Provider answers a question given retrieved context chunks. A failed
// generation is an error, never a partial answer.
type Provider interface {
	Generate(ctx context.Context, question string, contextChunks []string) (string, error)
}

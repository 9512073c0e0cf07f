package embedding

import "context"

// Embedder maps text into the shared semantic vector space. Chunks and
// questions must go through the same model so distances are comparable.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}

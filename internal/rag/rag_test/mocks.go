package rag_test

import (
	"context"

	"github.com/banglaqa/GoPDFQA/internal/rag/extract"
)

// MockExtractor implements rag.TextExtractor
type MockExtractor struct {
	// Control fields to simulate different behaviors
	OnExtractText func(ctx context.Context, path string, progress extract.ProgressFunc) (string, error)
}

func (m *MockExtractor) ExtractText(ctx context.Context, path string, progress extract.ProgressFunc) (string, error) {
	if m.OnExtractText != nil {
		return m.OnExtractText(ctx, path, progress)
	}
	return "default page text", nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Distinct dummy vectors, one per chunk
	vectors := make([][]float32, len(chunks))
	for i := range chunks {
		vectors[i] = []float32{float32(i), 1}
	}
	return vectors, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0, 1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, question string, contextChunks []string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, contextChunks)
	}
	return "mocked llm response", nil
}

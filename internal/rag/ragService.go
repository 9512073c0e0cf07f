package rag

import (
	"context"
	"errors"
	"time"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/domain/jobModel"
	"github.com/banglaqa/GoPDFQA/internal/metrics"
	"github.com/banglaqa/GoPDFQA/internal/rag/chunker"
	"github.com/banglaqa/GoPDFQA/internal/rag/doccache"
	"github.com/banglaqa/GoPDFQA/internal/rag/embedding"
	"github.com/banglaqa/GoPDFQA/internal/rag/extract"
	"github.com/banglaqa/GoPDFQA/internal/rag/llm"
	"github.com/banglaqa/GoPDFQA/internal/rag/vectorindex"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
)

// TextExtractor is the OCR capability the pipeline depends on. It is an
// interface here so tests can swap the real engine for a deterministic one.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string, progress extract.ProgressFunc) (string, error)
}

// Service is the pipeline orchestrator. IndexDocument takes a document to
// READY (chunked, embedded, indexed, persisted); AnswerQuestion serves one
// question against a READY document. A failed generation leaves the
// document's index intact and reusable.
type Service interface {
	AnswerQuestion(ctx context.Context, job jobModel.Job) jobModel.Job
	IndexDocument(ctx context.Context, job jobModel.Job, progress extract.ProgressFunc) jobModel.Job
}

type service struct {
	extractor   TextExtractor
	splitter    *chunker.Chunker
	embedder    embedding.Embedder
	llmProvider llm.Provider
	cache       *doccache.Cache
	logger      *logger_i.Logger
}

// NewService wires the pipeline. All collaborators are required.
func NewService(ex TextExtractor, em embedding.Embedder, provider llm.Provider, cache *doccache.Cache) Service {
	return &service{
		extractor:   ex,
		splitter:    chunker.New(config.ChunkMaxRunes, config.ChunkOverlapRunes),
		embedder:    em,
		llmProvider: provider,
		cache:       cache,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IndexDocument(ctx context.Context, job jobModel.Job, progress extract.ProgressFunc) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_indexing", time.Since(start)) }()

	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id, "document", job.JobPayload.DocumentKey)

	job.CurrentStep = jobModel.Extracting
	entry, err := s.resolveDocument(ctx, &job, progress)
	if err != nil {
		return s.jobError(job, err, "INDEXING_FAILURE", true)
	}

	inMethodLogger.Info("Document indexed", "chunks", len(entry.Chunks))
	job.JobPayload.ChunkCount = len(entry.Chunks)
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) AnswerQuestion(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)

	processContext, cancel := context.WithTimeout(ctx, config.QueryJobTimeout)
	defer cancel()

	// The document must be READY before any question runs against it. A
	// cached document loads instantly; an unprocessed one computes here,
	// shared with any concurrent request through the cache's single-flight
	// guard.
	entry, err := s.resolveDocument(ctx, &job, nil)
	if err != nil {
		return s.jobError(job, err, "DOCUMENT_NOT_READY", true)
	}

	queryVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &job)
	if err != nil {
		return s.jobError(job, err, "EMBEDDING_FAILURE", true)
	}

	contextChunks, err := s.executeRetrievalStep(processContext, inMethodLogger, &job, entry, queryVector)
	if err != nil {
		return s.jobError(job, err, "RETRIEVAL_FAILURE", false)
	}

	answer, err := s.executeGenerationStep(processContext, inMethodLogger, &job, contextChunks)
	if err != nil {
		// "No answer produced": the document stays READY, only this
		// question fails.
		return s.jobError(job, err, "LLM_GENERATION_FAILURE", true)
	}

	return returnOutput(job, answer, contextChunks)
}

// resolveDocument takes a document through UNINDEXED -> INDEXING -> READY,
// or returns the cached READY entry.
func (s *service) resolveDocument(ctx context.Context, job *jobModel.Job, progress extract.ProgressFunc) (*doccache.Entry, error) {
	key := job.JobPayload.DocumentKey
	path := job.JobPayload.DocumentPath
	return s.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*doccache.Entry, error) {
		return s.buildEntry(ctx, job, path, progress)
	})
}

// buildEntry is the cache-miss pipeline: extract, chunk, embed, index.
func (s *service) buildEntry(ctx context.Context, job *jobModel.Job, path string, progress extract.ProgressFunc) (*doccache.Entry, error) {
	text, err := s.executeExtractionStep(ctx, job, path, progress)
	if err != nil {
		return nil, err
	}

	job.CurrentStep = jobModel.Chunking
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, errors.New("document produced no text")
	}

	vectors, err := s.executeBatchEmbeddingStep(ctx, job, chunks)
	if err != nil {
		return nil, err
	}

	job.CurrentStep = jobModel.Indexing
	index, err := vectorindex.Build(vectors)
	if err != nil {
		return nil, err
	}
	return &doccache.Entry{Chunks: chunks, Index: index}, nil
}

var _ TextExtractor = (*extract.Extractor)(nil)

package rag

import (
	"context"
	"errors"
	"time"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/domain/commonModels"
	"github.com/banglaqa/GoPDFQA/internal/domain/jobModel"
	"github.com/banglaqa/GoPDFQA/internal/metrics"
	"github.com/banglaqa/GoPDFQA/internal/rag/doccache"
	"github.com/banglaqa/GoPDFQA/internal/rag/extract"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
)

func (s *service) executeExtractionStep(ctx context.Context, job *jobModel.Job, path string, progress extract.ProgressFunc) (string, error) {
	job.CurrentStep = jobModel.Extracting
	start := time.Now()
	text, err := s.extractor.ExtractText(ctx, path, progress)
	metrics.CaptureExecutionMetrics("ocr", time.Since(start))
	if err != nil {
		s.logger.Error("Text extraction failed", "traceId", job.TraceId, "document", job.JobPayload.DocumentKey, "error", err)
		return "", err
	}
	return text, nil
}

func (s *service) executeBatchEmbeddingStep(ctx context.Context, job *jobModel.Job, chunks []commonModels.Chunk) ([][]float32, error) {
	job.CurrentStep = jobModel.Embedding
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	start := time.Now()
	vectors, err := s.embedder.BatchEmbedding(ctx, texts)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		s.logger.Error("Chunk embedding failed", "traceId", job.TraceId, "chunks", len(chunks), "error", err)
		return nil, err
	}
	return vectors, nil
}

func (s *service) executeEmbeddingStep(ctx context.Context, inMethodLogger *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	job.CurrentStep = jobModel.EmbeddingQuery
	start := time.Now()
	vector, err := s.embedder.GetEmbedding(ctx, job.JobPayload.Question)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		inMethodLogger.Error("Query embedding failed", "error", err)
		return nil, err
	}
	return vector, nil
}

func (s *service) executeRetrievalStep(ctx context.Context, inMethodLogger *logger_i.Logger, job *jobModel.Job, entry *doccache.Entry, queryVector []float32) ([]string, error) {
	job.CurrentStep = jobModel.Retrieving
	start := time.Now()
	indices, _, err := entry.Index.Search(queryVector, config.TopKContext)
	metrics.CaptureExecutionMetrics("index_search", time.Since(start))
	if err != nil {
		inMethodLogger.Error("Index search failed", "error", err)
		return nil, err
	}
	contextChunks := make([]string, len(indices))
	for i, idx := range indices {
		contextChunks[i] = entry.Chunks[idx].Text
	}
	return contextChunks, nil
}

func (s *service) executeGenerationStep(ctx context.Context, inMethodLogger *logger_i.Logger, job *jobModel.Job, contextChunks []string) (string, error) {
	job.CurrentStep = jobModel.Generating
	start := time.Now()
	answer, err := s.llmProvider.Generate(ctx, job.JobPayload.Question, contextChunks)
	metrics.CaptureExecutionMetrics("llm_generation", time.Since(start))
	if err != nil {
		inMethodLogger.Error("Answer generation failed", "error", err)
		return "", err
	}
	return answer, nil
}

// jobError marks the job failed. Language pack errors keep their own
// actionable message so the caller knows which traineddata to install.
func (s *service) jobError(job jobModel.Job, err error, label string, retry bool) jobModel.Job {
	message := label
	var langErr *extract.LanguageDataError
	if errors.As(err, &langErr) {
		message = langErr.Error()
	}
	job.Error = jobModel.JobError{
		Code:    500,
		Message: message,
		Retry:   retry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	s.logger.Error("Job failed", "traceId", job.TraceId, "JobId", job.Id, "step", label, "error", err)
	return job
}

func returnOutput(job jobModel.Job, answer string, contextChunks []string) jobModel.Job {
	job.JobPayload.Answer = answer
	job.JobPayload.Context = contextChunks
	job.CurrentStep = jobModel.Complete
	return job
}

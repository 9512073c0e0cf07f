package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	QueryInit      InternalStatus = "Init"
	EmbeddingQuery InternalStatus = "EmbeddingQuery"
	Retrieving     InternalStatus = "Retrieving"
	Generating     InternalStatus = "Generating"

	IndexInit  InternalStatus = "IndexInit"
	Extracting InternalStatus = "Extracting"
	Chunking   InternalStatus = "Chunking"
	Embedding  InternalStatus = "Embedding"
	Indexing   InternalStatus = "Indexing"

	Error    InternalStatus = "Error"
	Complete InternalStatus = "Complete"

	JobTypeQuery JobType = "Query"
	JobTypeIndex JobType = "Index"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocumentKey  string `json:"document_key,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`

	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Context  []string `json:"context,omitempty"`

	// OCR progress for index jobs, updated per page.
	PagesDone  int `json:"pages_done,omitempty"`
	PagesTotal int `json:"pages_total,omitempty"`

	ChunkCount int `json:"chunk_count,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

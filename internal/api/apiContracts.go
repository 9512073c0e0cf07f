package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type QAResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Context  []string `json:"context"`
}

type IndexProgress struct {
	DocumentKey string `json:"document_key"`
	PagesDone   int    `json:"pages_done"`
	PagesTotal  int    `json:"pages_total"`
	ChunkCount  int    `json:"chunk_count,omitempty"`
}

type Result struct {
	Status      string         `json:"status"`
	CurrentStep string         `json:"current_step,omitempty"`
	QAResponse  *QAResponse    `json:"qa_response,omitempty"`
	Progress    *IndexProgress `json:"progress,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type UploadResponse struct {
	DocumentKey string `json:"document_key"`
	JobId       string `json:"job_id"`
	StatusURL   string `json:"status_url"`
}

// requests---------------------

type AskRequest struct {
	Question    string `json:"question" validate:"required"`
	DocumentKey string `json:"document_key" validate:"required"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

package adapter

import (
	"fmt"
	"time"

	"github.com/banglaqa/GoPDFQA/internal/api"
	"github.com/banglaqa/GoPDFQA/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToUploadResponse(documentKey string, jobId string) api.UploadResponse {
	return api.UploadResponse{
		DocumentKey: documentKey,
		JobId:       jobId,
		StatusURL:   fmt.Sprintf("status/%s", jobId),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		QAResponse:  ToQAResponse(job.JobPayload),
		Progress:    ToIndexProgress(job),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToQAResponse(payload jobModel.JobPayload) *api.QAResponse {
	if payload.Answer == "" && len(payload.Context) == 0 {
		return nil
	}

	return &api.QAResponse{
		Question: payload.Question,
		Answer:   payload.Answer,
		Context:  payload.Context,
	}
}

func ToIndexProgress(job jobModel.Job) *api.IndexProgress {
	if job.JobType != jobModel.JobTypeIndex {
		return nil
	}
	return &api.IndexProgress{
		DocumentKey: job.JobPayload.DocumentKey,
		PagesDone:   job.JobPayload.PagesDone,
		PagesTotal:  job.JobPayload.PagesTotal,
		ChunkCount:  job.JobPayload.ChunkCount,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

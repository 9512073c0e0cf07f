package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banglaqa/GoPDFQA/internal/api"
	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/domain/jobModel"
	"github.com/banglaqa/GoPDFQA/internal/job"
	"github.com/banglaqa/GoPDFQA/internal/metrics"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func ValidateAskRequest(askReq api.AskRequest) bool {
	if handlerInstance == nil {
		return false
	}
	logJH.Debug(" Validating ask request ", "documentKey :", askReq.DocumentKey)
	return askReq.Question != "" && askReq.DocumentKey != ""
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobPayload.DocumentKey = newJob.documentKey
	_job.JobPayload.DocumentPath = newJob.documentPath

	if newJob.isDocumentIndex {
		_job.CurrentStep = jobModel.IndexInit
		_job.JobType = jobModel.JobTypeIndex

	} else {
		_job.JobType = jobModel.JobTypeQuery
		_job.JobPayload.Question = newJob.question
		_job.CurrentStep = jobModel.QueryInit
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//a new worker every 10 requests, or immediately for an index job since
	//OCR of a full scan holds a worker for minutes
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIndex {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}

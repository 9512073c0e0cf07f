package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/banglaqa/GoPDFQA/internal/config"
	jobmodel "github.com/banglaqa/GoPDFQA/internal/domain/jobModel"
	"github.com/banglaqa/GoPDFQA/internal/metrics"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)

	// OCR of a large scan takes far longer than answering a question, so
	// index jobs get the bigger budget.
	budget := config.QueryJobTimeout
	if job.JobType == jobmodel.JobTypeIndex {
		budget = config.IndexJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctxTrace, budget)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	if job.JobType == jobmodel.JobTypeIndex {
		job = indexDocument(job, ctx, logger)
	} else {
		job = processQuery(job, ctx, logger)
	}

	job.EndTime = time.Now()
	if job.Status == jobmodel.JobStatusError {
		saveJobState(ctx, job, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func indexDocument(job jobmodel.Job, ctx context.Context, logger *logger_i.Logger) jobmodel.Job {
	// Page progress lands in the job store so status polls see it live.
	progress := func(done, total int) {
		job.JobPayload.PagesDone = done
		job.JobPayload.PagesTotal = total
		metrics.IncrementOCRPages()
		saveJobState(ctx, job, jobmodel.JobStatusRunning)
	}
	return _ragService.IndexDocument(ctx, job, progress)
}

func processQuery(job jobmodel.Job, ctx context.Context, logger *logger_i.Logger) jobmodel.Job {
	return _ragService.AnswerQuestion(ctx, job)
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}

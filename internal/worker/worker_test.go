package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/domain/jobModel"
	"github.com/banglaqa/GoPDFQA/internal/job"
	"github.com/banglaqa/GoPDFQA/internal/rag/extract"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
	OnIndex        func(ctx context.Context, j jobModel.Job, progress extract.ProgressFunc) jobModel.Job
}

func (m *MockRagService) AnswerQuestion(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockRagService) IndexDocument(ctx context.Context, j jobModel.Job, progress extract.ProgressFunc) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnIndex != nil {
		return m.OnIndex(ctx, j, progress)
	}
	return j
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1", JobType: jobModel.JobTypeQuery}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IndexJobProgressSaved(t *testing.T) {
	var savedJobs []jobModel.Job
	var mu sync.Mutex
	jobStore := &MockJobStore{
		OnSaveJob: func(ctx context.Context, j jobModel.Job) error {
			mu.Lock()
			defer mu.Unlock()
			savedJobs = append(savedJobs, j)
			return nil
		},
	}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 1),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          jobStore,
	}
	mockRag := &MockRagService{
		OnIndex: func(ctx context.Context, j jobModel.Job, progress extract.ProgressFunc) jobModel.Job {
			progress(1, 2)
			progress(2, 2)
			j.CurrentStep = jobModel.Complete
			return j
		},
	}
	logger = logger_i.NewLogger("TestWorkerPool")
	InitServices(jobSvc, mockRag)

	executeJob(jobModel.Job{Id: "idx-1", JobType: jobModel.JobTypeIndex})

	mu.Lock()
	defer mu.Unlock()
	var sawProgress bool
	for _, j := range savedJobs {
		if j.JobPayload.PagesDone == 1 && j.JobPayload.PagesTotal == 2 {
			sawProgress = true
		}
	}
	if !sawProgress {
		t.Error("per-page progress was never written to the job store")
	}
	last := savedJobs[len(savedJobs)-1]
	if last.Status != jobModel.JobStatusComplete {
		t.Errorf("final saved Status got %v, want %v", last.Status, jobModel.JobStatusComplete)
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 2) // Must be > 1 based on retirement logic
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}

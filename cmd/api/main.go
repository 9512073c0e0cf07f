package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/data/store"
	jobmodel "github.com/banglaqa/GoPDFQA/internal/domain/jobModel"
	"github.com/banglaqa/GoPDFQA/internal/handlers"
	"github.com/banglaqa/GoPDFQA/internal/job"
	"github.com/banglaqa/GoPDFQA/internal/rag"
	"github.com/banglaqa/GoPDFQA/internal/rag/doccache"
	"github.com/banglaqa/GoPDFQA/internal/rag/embedding/google"
	"github.com/banglaqa/GoPDFQA/internal/rag/extract"
	"github.com/banglaqa/GoPDFQA/internal/rag/llm/openaillm"
	"github.com/banglaqa/GoPDFQA/internal/server"
	"github.com/banglaqa/GoPDFQA/internal/worker"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		serviceConfig.JobStore = redisJobStore
	} else {
		logger.Error("Redis store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	extractor, err := extract.New(serviceContext, config.PrimaryOCRLanguage(), config.FallbackOCRLanguage())
	if err != nil {
		logger.Error("OCR engine unavailable", "error", err)
		return
	}
	logger.Info("OCR engine ready", "language", extractor.Language())

	cache, err := doccache.New(config.CacheDir())
	if err != nil {
		logger.Error("Could not initialize document cache", "error", err)
		return
	}

	embeddingService := google.GetEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	llmProvider := openaillm.GetOpenAIClient(config.OpenAIAPIKey(), config.OpenAIModel)

	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(extractor, embeddingService, llmProvider, cache)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

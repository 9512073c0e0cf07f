package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//per-job execution budget - OCR of a large scan dominates the index path
	IndexJobTimeout = 10 * time.Minute
	QueryJobTimeout = 60 * time.Second

	//ocr
	OCRLanguage         = "ben"
	OCRFallbackLanguage = "eng"
	OCRDPIResolution    = 300
	//tesseract: LSTM engine, uniform block of text
	OCREngineMode       = "1"
	OCRPageSegmentation = "6"
	OCRPageTimeout      = 2 * time.Minute
	RasterTimeout       = 5 * time.Minute
	PageSeparator       = "\n\n"

	//chunking
	ChunkMaxRunes     = 500
	ChunkOverlapRunes = 100

	//retrieval
	TopKContext = 3

	//embeddings
	GoogleEmbeddingModel                = "gemini-embedding-001"
	EmbeddingOutputDimensionality int32 = 768
	EmbeddingRetryDelay                 = 5 * time.Second

	//llm
	OpenAIModel                  = "gpt-4o"
	ModelTemperature     float64 = 0.2
	ModelMaxOutputTokens int64   = 500
	ModelContext                 = "You are a helpful assistant that answers questions in Bangla."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""
	RedisJobStore = 0

	RedisJobStoreTTL = 24 * time.Hour

	//auth - set PDFQA_AUTH_TOKEN for real deployments
	NoAuthBypass = true
)

// Constants above are compile-time policy, the values below differ per
// deployment and come from the environment (main loads .env first).

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func AuthToken() string {
	return os.Getenv("PDFQA_AUTH_TOKEN")
}

func DataDir() string {
	if dir := os.Getenv("PDFQA_DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}

func CacheDir() string {
	if dir := os.Getenv("PDFQA_CACHE_DIR"); dir != "" {
		return dir
	}
	return "cache"
}

func PrimaryOCRLanguage() string {
	if lang := os.Getenv("OCR_LANG"); lang != "" {
		return lang
	}
	return OCRLanguage
}

func FallbackOCRLanguage() string {
	if lang := os.Getenv("OCR_FALLBACK_LANG"); lang != "" {
		return lang
	}
	return OCRFallbackLanguage
}

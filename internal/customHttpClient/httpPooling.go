package customHttpClient

import (
	"net/http"

	"github.com/banglaqa/GoPDFQA/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooled = &http.Client{Transport: customTransport}

// Pooled returns the shared connection-pooling client for outbound
// completion-service calls.
func Pooled() *http.Client {
	return pooled
}

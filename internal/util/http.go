package util

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/youruser/cardcomposer/internal/logger"
)

// DefaultHTTPTimeout bounds a whole outbound request, body included.
const DefaultHTTPTimeout = 12 * time.Second

// HTTPOptions configures the outbound client.
type HTTPOptions struct {
	Timeout  time.Duration
	RetryMax int
}

// NewHTTPClient returns a retryablehttp client that logs through logrus and
// hands every final response back to the caller, whatever its status.
func NewHTTPClient(opts HTTPOptions) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = logger.Leveled{Entry: logger.WithNamespace("http")}
	client.HTTPClient.Timeout = opts.Timeout
	if client.HTTPClient.Timeout <= 0 {
		client.HTTPClient.Timeout = DefaultHTTPTimeout
	}
	return client
}

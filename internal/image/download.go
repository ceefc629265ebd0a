package imagepkg

import (
	"context"
	"image"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/youruser/cardcomposer/internal/logger"
)

// DefaultMaxImageSize caps the body of a fetched image.
const DefaultMaxImageSize = 15 << 20

// FetchOptions configures a Fetcher.
type FetchOptions struct {
	Client    *retryablehttp.Client
	MaxSize   int64
	RateLimit float64
	UserAgent string
}

// Fetcher downloads and decodes remote images.
type Fetcher struct {
	client    *retryablehttp.Client
	maxSize   int64
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher builds a Fetcher. A RateLimit of zero disables throttling of
// outbound requests.
func NewFetcher(opts FetchOptions) *Fetcher {
	f := &Fetcher{
		client:    opts.Client,
		maxSize:   opts.MaxSize,
		userAgent: opts.UserAgent,
	}
	if f.client == nil {
		f.client = retryablehttp.NewClient()
		f.client.RetryMax = 0
		f.client.Logger = nil
		f.client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	}
	if f.maxSize <= 0 {
		f.maxSize = DefaultMaxImageSize
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return f
}

// Fetch downloads rawURL and decodes it. Network failures, non-2xx statuses,
// non-image content types and oversized bodies are FetchErrors; a body that
// arrives but does not decode is a DecodeError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, InvalidRequestError("image url %q is not an http(s) URL", rawURL)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, FetchError(err, "waiting for fetch slot")
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, FetchError(err, "build request for %s", rawURL)
	}
	req.Header.Set("Accept", "image/*")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, FetchError(err, "GET %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FetchError(nil, "GET %s returned %d", rawURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || !(strings.HasPrefix(mt, "image/") || mt == "application/octet-stream") {
			return nil, FetchError(nil, "GET %s returned unsupported content-type %q", rawURL, ct)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, FetchError(err, "read body of %s", rawURL)
	}
	if int64(len(body)) > f.maxSize {
		return nil, FetchError(nil, "image at %s exceeds %s", rawURL, humanize.IBytes(uint64(f.maxSize)))
	}

	logger.WithNamespace("fetch").
		WithField("url", rawURL).
		WithField("size", humanize.IBytes(uint64(len(body)))).
		Debug("image fetched")

	return DecodeBytes(body)
}

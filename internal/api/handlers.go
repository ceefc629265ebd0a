package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/cardcomposer/internal/image"
	"github.com/youruser/cardcomposer/internal/logger"
	"github.com/youruser/cardcomposer/internal/metrics"
	"github.com/youruser/cardcomposer/internal/store"
)

const (
	defaultPreset = "default"
	defaultQRSize = 400
	maxQRSize     = 2048
)

// Options wires a Server.
type Options struct {
	// Compositor renders requests without a preset.
	Compositor *imagepkg.Compositor
	// Presets are selected by the "preset" field of a request.
	Presets   map[string]*imagepkg.Compositor
	Fetcher   Fetcher
	Store     *store.Store
	Rules     imagepkg.ContentRules
	PublicURL string
}

// Server holds the long-lived render graph shared by all requests.
type Server struct {
	compositor *imagepkg.Compositor
	presets    map[string]*imagepkg.Compositor
	fetcher    Fetcher
	store      *store.Store
	rules      imagepkg.ContentRules
	publicURL  string
}

// NewServer returns a Server. A nil store disables url delivery.
func NewServer(opts Options) *Server {
	return &Server{
		compositor: opts.Compositor,
		presets:    opts.Presets,
		fetcher:    opts.Fetcher,
		store:      opts.Store,
		rules:      opts.Rules,
		publicURL:  strings.TrimRight(opts.PublicURL, "/"),
	}
}

// health answers liveness checks.
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qrHandler encodes the "text" query parameter as a QR PNG. "size" is the
// edge in pixels, defaulting to defaultQRSize and capped at maxQRSize.
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		abortWithError(c, imagepkg.InvalidRequestError("text is required"))
		return
	}
	size := defaultQRSize
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil || v <= 0 || v > maxQRSize {
			abortWithError(c, imagepkg.InvalidRequestError("size must be between 1 and %d", maxQRSize))
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// render composites the card and returns the JPEG, or a link to it when
// the request asks for url delivery.
func (s *Server) render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, imagepkg.InvalidRequestError("malformed request body: %s", err))
		return
	}

	preset, comp, err := s.compositorFor(req.Preset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	start := time.Now()
	data, err := s.renderJPEG(c, comp, &req)
	metrics.RenderDurations.
		WithLabelValues(preset, outcome(err)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		abortWithError(c, err)
		return
	}

	if req.Delivery != DeliveryURL {
		c.Data(http.StatusOK, "image/jpeg", data)
		return
	}
	id, entry := s.store.Put(data, "image/jpeg")
	metrics.StoredImages.Inc()
	c.JSON(http.StatusCreated, StoredImage{
		ID:        id,
		URL:       s.imageURL(c, id),
		ExpiresAt: entry.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) renderJPEG(c *gin.Context, comp *imagepkg.Compositor, req *RenderRequest) ([]byte, error) {
	content, err := req.Normalize(s.rules)
	if err != nil {
		return nil, err
	}
	if req.Delivery == DeliveryURL && s.store == nil {
		return nil, imagepkg.InvalidRequestError("url delivery is not enabled")
	}

	ctx := c.Request.Context()
	photo, err := req.LoadImage(ctx, s.fetcher)
	if err != nil {
		return nil, err
	}
	res, err := comp.Compose(ctx, photo, content)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := comp.EncodeJPEG(buf, res.Image); err != nil {
		return nil, err
	}
	logger.WithNamespace("render").
		WithField("bullets", len(content.Bullets)).
		WithField("clipped", res.Layout.Overflowed).
		WithField("bytes", buf.Len()).
		Debug("card rendered")
	return buf.Bytes(), nil
}

func (s *Server) compositorFor(name string) (string, *imagepkg.Compositor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == defaultPreset {
		return defaultPreset, s.compositor, nil
	}
	comp, ok := s.presets[name]
	if !ok {
		return "", nil, imagepkg.InvalidRequestError("unknown preset %q", name)
	}
	return name, comp, nil
}

func (s *Server) imageURL(c *gin.Context, id string) string {
	base := s.publicURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/api/images/" + id
}

// image serves a stored render until it expires.
func (s *Server) image(c *gin.Context) {
	entry, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error": gin.H{"kind": "not_found", "message": "image not found or expired"},
		})
		return
	}
	c.Header("Cache-Control", "private, max-age="+strconv.Itoa(int(time.Until(entry.ExpiresAt).Seconds())))
	c.Data(http.StatusOK, entry.ContentType, entry.Data)
}

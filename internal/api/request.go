package api

import (
	"context"
	"image"
	"strings"

	imagepkg "github.com/youruser/cardcomposer/internal/image"
)

// Delivery modes of a render request.
const (
	DeliveryBytes = "bytes"
	DeliveryURL   = "url"
)

// ImageSource carries the photo, either inline or by reference. Exactly one
// of the fields must be set.
type ImageSource struct {
	Base64 string `json:"base64,omitempty"`
	URL    string `json:"url,omitempty"`
}

// RenderRequest is the body of POST /api/render.
type RenderRequest struct {
	Title    string       `json:"title"`
	Bullets  []string     `json:"bullets"`
	Image    *ImageSource `json:"image"`
	QRText   string       `json:"qr_text,omitempty"`
	Delivery string       `json:"delivery,omitempty"`
	Preset   string       `json:"preset,omitempty"`
}

// StoredImage is the response of a render with url delivery.
type StoredImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// Fetcher resolves remote image references.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (image.Image, error)
}

// Normalize validates the delivery mode and the content.
func (r *RenderRequest) Normalize(rules imagepkg.ContentRules) (imagepkg.Content, error) {
	r.Delivery = strings.ToLower(strings.TrimSpace(r.Delivery))
	switch r.Delivery {
	case "":
		r.Delivery = DeliveryBytes
	case DeliveryBytes, DeliveryURL:
	default:
		return imagepkg.Content{}, imagepkg.InvalidRequestError("unknown delivery %q", r.Delivery)
	}
	return imagepkg.NewContent(r.Title, r.Bullets, r.QRText, rules)
}

// LoadImage resolves the image source. A missing source, or one giving both
// base64 and url, is an InvalidRequestError.
func (r *RenderRequest) LoadImage(ctx context.Context, fetcher Fetcher) (image.Image, error) {
	src := r.Image
	if src == nil {
		return nil, imagepkg.InvalidRequestError("image is required")
	}
	b64, u := strings.TrimSpace(src.Base64), strings.TrimSpace(src.URL)
	switch {
	case b64 == "" && u == "":
		return nil, imagepkg.InvalidRequestError("image needs base64 or url")
	case b64 != "" && u != "":
		return nil, imagepkg.InvalidRequestError("image takes base64 or url, not both")
	case b64 != "":
		return imagepkg.DecodeBase64(b64)
	default:
		return fetcher.Fetch(ctx, u)
	}
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/cardcomposer/internal/image"
)

const kindInternal = "internal"

// statusOf maps an error kind to its HTTP status.
func statusOf(kind imagepkg.Kind) int {
	switch kind {
	case imagepkg.KindInvalidRequest:
		return http.StatusBadRequest
	case imagepkg.KindDecode:
		return http.StatusUnprocessableEntity
	case imagepkg.KindFetch:
		return http.StatusBadGateway
	default:
		// asset_missing and invalid_zone are deployment faults
		return http.StatusInternalServerError
	}
}

// outcome names err for logs and metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := imagepkg.KindOf(err); kind != "" {
		return string(kind)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return kindInternal
}

// abortWithError writes the JSON error body and stops the chain. Errors
// without a kind keep their message out of the response.
func abortWithError(c *gin.Context, err error) {
	kind := imagepkg.KindOf(err)
	msg := err.Error()
	status := statusOf(kind)
	if kind == "" {
		msg = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"kind":    errorKind(kind),
			"message": msg,
		},
	})
}

func errorKind(kind imagepkg.Kind) string {
	if kind == "" {
		return kindInternal
	}
	return string(kind)
}

package imagepkg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageServer(t *testing.T, png []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/photo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/broken.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("definitely not a png"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := imageServer(t, encodePNG(t, 40, 30))
	f := NewFetcher(FetchOptions{})

	img, err := f.Fetch(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestFetchErrors(t *testing.T) {
	srv := imageServer(t, encodePNG(t, 40, 30))
	ctx := context.Background()
	f := NewFetcher(FetchOptions{})

	_, err := f.Fetch(ctx, srv.URL+"/missing.png")
	assert.ErrorIs(t, err, ErrFetch)

	_, err = f.Fetch(ctx, srv.URL+"/page")
	assert.ErrorIs(t, err, ErrFetch)

	_, err = f.Fetch(ctx, srv.URL+"/broken.png")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = f.Fetch(ctx, "ftp://example.com/photo.png")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	small := NewFetcher(FetchOptions{MaxSize: 16})
	_, err = small.Fetch(ctx, srv.URL+"/photo.png")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/photo.png"
	srv.Close()

	_, err := NewFetcher(FetchOptions{}).Fetch(context.Background(), url)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchSendsUserAgent(t *testing.T) {
	png := encodePNG(t, 4, 4)
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	_, err := NewFetcher(FetchOptions{UserAgent: "cardcomposer-test", RateLimit: 5}).
		Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "cardcomposer-test", got)
}

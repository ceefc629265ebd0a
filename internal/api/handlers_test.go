package api

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	imagepkg "github.com/youruser/cardcomposer/internal/image"
	"github.com/youruser/cardcomposer/internal/store"
)

func photoPNG(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, imaging.Encode(buf, imaging.New(160, 90, color.NRGBA{R: 120, G: 140, B: 90, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func newTestServer(t *testing.T) *httpexpect.Expect {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fonts, err := imagepkg.NewFontResolver(imagepkg.FontOptions{})
	require.NoError(t, err)
	assets, err := imagepkg.NewAssetLoader(4)
	require.NoError(t, err)
	comp, err := imagepkg.NewCompositor(imagepkg.DefaultRenderConfig(), fonts, assets)
	require.NoError(t, err)

	small := imagepkg.DefaultRenderConfig()
	small.Width, small.Height = 600, 600
	small.Logo = imagepkg.Rect{X: 0, Y: 0, W: 600, H: 100}
	small.Photo = imagepkg.Rect{X: 0, Y: 100, W: 600, H: 300}
	small.Text = imagepkg.Rect{X: 0, Y: 400, W: 600, H: 200}
	small.Overlays = nil
	smallComp, err := imagepkg.NewCompositor(small, fonts, assets)
	require.NoError(t, err)

	srv := NewServer(Options{
		Compositor: comp,
		Presets:    map[string]*imagepkg.Compositor{"small": smallComp},
		Fetcher:    imagepkg.NewFetcher(imagepkg.FetchOptions{}),
		Store:      store.New(time.Minute, time.Minute),
		Rules:      imagepkg.ContentRules{MaxBullets: 3, Skip: []string{"Not Specified"}},
		PublicURL:  "https://cards.example.com/",
	})
	ts := httptest.NewServer(NewRouter(srv))
	t.Cleanup(ts.Close)
	return httpexpect.Default(t, ts.URL)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)
	e.GET("/api/health").Expect().Status(http.StatusOK).
		JSON().Object().Value("status").String().IsEqual("ok")
}

func TestRenderBase64(t *testing.T) {
	e := newTestServer(t)
	body := e.POST("/api/render").
		WithJSON(map[string]interface{}{
			"title":   "EFFICIENT SPACE PLANNING",
			"bullets": []string{"Aesthetics don't ensure efficiency.", "Not Specified", "Contact us today."},
			"image":   map[string]string{"base64": base64.StdEncoding.EncodeToString(photoPNG(t))},
		}).
		Expect().
		Status(http.StatusOK).
		HasContentType("image/jpeg").
		Body().Raw()

	img, err := imagepkg.DecodeBytes([]byte(body))
	require.NoError(t, err)
	require.Equal(t, 1080, img.Bounds().Dx())
	require.Equal(t, 1080, img.Bounds().Dy())
}

func TestRenderFromURLWithPreset(t *testing.T) {
	png := photoPNG(t)
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer remote.Close()

	e := newTestServer(t)
	body := e.POST("/api/render").
		WithJSON(map[string]interface{}{
			"title":  "Small card",
			"image":  map[string]string{"url": remote.URL + "/p.png"},
			"preset": "small",
		}).
		Expect().
		Status(http.StatusOK).
		Body().Raw()

	img, err := imagepkg.DecodeBytes([]byte(body))
	require.NoError(t, err)
	require.Equal(t, 600, img.Bounds().Dx())
}

func TestRenderURLDelivery(t *testing.T) {
	e := newTestServer(t)
	obj := e.POST("/api/render").
		WithJSON(map[string]interface{}{
			"title":    "Stored",
			"image":    map[string]string{"base64": base64.StdEncoding.EncodeToString(photoPNG(t))},
			"delivery": "url",
		}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object()

	id := obj.Value("id").String().NotEmpty().Raw()
	obj.Value("url").String().IsEqual("https://cards.example.com/api/images/" + id)
	obj.Value("expires_at").String().AsDateTime(time.RFC3339)

	e.GET("/api/images/" + id).Expect().
		Status(http.StatusOK).
		HasContentType("image/jpeg")

	e.GET("/api/images/nope").Expect().
		Status(http.StatusNotFound).
		JSON().Object().Value("error").Object().Value("kind").String().IsEqual("not_found")
}

func TestRenderErrors(t *testing.T) {
	e := newTestServer(t)
	b64 := base64.StdEncoding.EncodeToString(photoPNG(t))

	expectKind := func(body interface{}, status int, kind string) {
		e.POST("/api/render").WithJSON(body).Expect().
			Status(status).
			JSON().Object().Value("error").Object().Value("kind").String().IsEqual(kind)
	}

	// no image at all
	expectKind(map[string]interface{}{"title": "t"}, http.StatusBadRequest, "invalid_request")
	expectKind(map[string]interface{}{"title": "t", "image": map[string]string{}}, http.StatusBadRequest, "invalid_request")
	expectKind(map[string]interface{}{
		"title": "t",
		"image": map[string]string{"base64": b64, "url": "https://example.com/a.png"},
	}, http.StatusBadRequest, "invalid_request")
	expectKind(map[string]interface{}{"image": map[string]string{"base64": b64}}, http.StatusBadRequest, "invalid_request")
	expectKind(map[string]interface{}{
		"title":   "t",
		"bullets": []string{"a", "b", "c", "d"},
		"image":   map[string]string{"base64": b64},
	}, http.StatusBadRequest, "invalid_request")
	expectKind(map[string]interface{}{
		"title":  "t",
		"image":  map[string]string{"base64": b64},
		"preset": "unknown",
	}, http.StatusBadRequest, "invalid_request")
	expectKind(map[string]interface{}{
		"title":    "t",
		"image":    map[string]string{"base64": b64},
		"delivery": "email",
	}, http.StatusBadRequest, "invalid_request")

	expectKind(map[string]interface{}{
		"title": "t",
		"image": map[string]string{"base64": base64.StdEncoding.EncodeToString([]byte("not an image"))},
	}, http.StatusUnprocessableEntity, "decode")

	closed := httptest.NewServer(http.NotFoundHandler())
	unreachable := closed.URL + "/photo.jpg"
	closed.Close()
	expectKind(map[string]interface{}{
		"title": "t",
		"image": map[string]string{"url": unreachable},
	}, http.StatusBadGateway, "fetch")

	e.POST("/api/render").WithBytes([]byte("{not json")).WithHeader("Content-Type", "application/json").
		Expect().Status(http.StatusBadRequest)
}

func TestQR(t *testing.T) {
	e := newTestServer(t)
	e.GET("/api/qr").WithQuery("text", "https://example.com").WithQuery("size", 200).
		Expect().
		Status(http.StatusOK).
		HasContentType("image/png")

	e.GET("/api/qr").Expect().Status(http.StatusBadRequest)
	e.GET("/api/qr").WithQuery("text", "x").WithQuery("size", "huge").
		Expect().Status(http.StatusBadRequest)
	e.GET("/api/qr").WithQuery("text", "x").WithQuery("size", maxQRSize+1).
		Expect().Status(http.StatusBadRequest)

	// no size means defaultQRSize
	body := e.GET("/api/qr").WithQuery("text", "x").
		Expect().Status(http.StatusOK).Body().Raw()
	img, err := imagepkg.DecodeBytes([]byte(body))
	require.NoError(t, err)
	require.Equal(t, defaultQRSize, img.Bounds().Dx())
}

func TestMetrics(t *testing.T) {
	e := newTestServer(t)
	e.GET("/api/health").Expect().Status(http.StatusOK)
	e.GET("/metrics").Expect().
		Status(http.StatusOK).
		Body().Contains("http_all_total_duration")
}

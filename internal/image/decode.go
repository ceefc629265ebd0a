package imagepkg

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	// webp is common for photos pulled from the web
	_ "golang.org/x/image/webp"
)

// DecodeBase64 decodes an inline image. A data URI prefix and embedded
// whitespace are accepted.
func DecodeBase64(s string) (image.Image, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Join(strings.Fields(s), "")
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil {
		return nil, DecodeError(err, "invalid base64 image data")
	}
	return DecodeBytes(data)
}

// DecodeBytes sniffs and decodes an encoded image, applying its EXIF
// orientation.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, DecodeError(nil, "empty image data")
	}
	if !filetype.IsImage(data) {
		mime := "unknown"
		if kind, err := filetype.Match(data); err == nil && kind.MIME.Value != "" {
			mime = kind.MIME.Value
		}
		return nil, DecodeError(nil, "unsupported image type %s", mime)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, DecodeError(err, "decode image")
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, DecodeError(nil, "image is %dx%d", b.Dx(), b.Dy())
	}
	return img, nil
}

package imagepkg

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	q, err := newQR(text)
	if err != nil {
		return nil, err
	}
	return q.PNG(size)
}

// GenerateQRImage returns the QR code for text as a size x size image.
func GenerateQRImage(text string, size int) (image.Image, error) {
	q, err := newQR(text)
	if err != nil {
		return nil, err
	}
	return q.Image(size), nil
}

func newQR(text string) (*qrcode.QRCode, error) {
	if text == "" {
		return nil, InvalidRequestError("qr text is empty")
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, InvalidRequestError("qr text: %s", err)
	}
	return q, nil
}

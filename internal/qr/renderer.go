package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered QR image edge length in pixels.
const DefaultSize = 256

// Render encodes the payload into a PNG QR image. Medium error correction
// keeps the codes readable on phone screens while staying compact.
func Render(payload []byte, size int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("qr: empty payload")
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode failed: %w", err)
	}
	return png, nil
}

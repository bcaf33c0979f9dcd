package qr

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered width and height in pixels
const DefaultSize = 380

// Encoder renders text as a scannable image
type Encoder interface {
	DataURL(content string) (string, error)
}

type pngEncoder struct {
	size  int
	level qrcode.RecoveryLevel
}

func NewEncoder() Encoder {
	return &pngEncoder{size: DefaultSize, level: qrcode.Medium}
}

// DataURL returns content encoded as a PNG data URL
func (e *pngEncoder) DataURL(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr: empty content")
	}
	png, err := qrcode.Encode(content, e.level, e.size)
	if err != nil {
		return "", fmt.Errorf("qr: encode: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

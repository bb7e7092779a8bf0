// Package photo normalizes uploaded vehicle photos. Uploads arrive as
// base64 data URIs; anything wider than the configured limit is scaled
// down and re-encoded as JPEG so stored records stay small.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrInvalidDataURI = errors.New("invalid image data URI")

const jpegQuality = 85

// Processor downscales vehicle photos to a maximum width.
type Processor struct {
	maxWidth int
}

func NewProcessor(maxWidth int) *Processor {
	return &Processor{maxWidth: maxWidth}
}

// Normalize decodes a base64 data URI, scales the image down to the
// configured width when it is wider, and returns a JPEG data URI.
// Images already within bounds are still re-encoded so every stored
// photo has the same format.
func (p *Processor) Normalize(dataURI string) (string, error) {
	raw, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > p.maxWidth {
		// Height 0 preserves the aspect ratio.
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:image/") {
		return nil, ErrInvalidDataURI
	}
	idx := strings.Index(uri, ";base64,")
	if idx < 0 {
		return nil, ErrInvalidDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(uri[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(raw) == 0 {
		return nil, ErrInvalidDataURI
	}
	return raw, nil
}

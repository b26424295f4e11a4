package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// MaxImageDimension caps the longest edge of stored images.
const MaxImageDimension = 2048

const webpQuality = 80

// NormalizeImage decodes an uploaded image, downscales it so neither edge
// exceeds MaxImageDimension, and re-encodes it as WebP. It returns the
// encoded bytes and the "webp" extension for path building.
func NormalizeImage(data []byte) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > MaxImageDimension || height > MaxImageDimension {
		scale := float64(MaxImageDimension) / float64(width)
		if height > width {
			scale = float64(MaxImageDimension) / float64(height)
		}
		dstW := int(float64(width) * scale)
		dstH := int(float64(height) * scale)
		dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, "", fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), "webp", nil
}

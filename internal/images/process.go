// Package images normalizes uploaded service pictures: any jpeg, png or
// webp input comes out as a webp no wider than MaxWidth.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

const (
	MaxWidth    = 800
	MaxBytes    = 5 << 20
	ContentType = "image/webp"
	quality     = 80
)

var ErrInvalidImage = httperr.ErrBusiness("invalid_image")

// Process decodes r, downscales it to MaxWidth keeping the aspect ratio and
// re-encodes it as webp.
func Process(r io.Reader) ([]byte, error) {
	src, format, err := image.Decode(io.LimitReader(r, MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img := resize(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode %s as webp: %w", format, err)
	}
	return buf.Bytes(), nil
}

func resize(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() <= MaxWidth {
		return src
	}

	h := b.Dy() * MaxWidth / b.Dx()
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, MaxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

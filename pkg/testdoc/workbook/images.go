package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding for screenshots
	_ "image/jpeg" // register JPEG decoding for screenshots
	"image/png"

	"golang.org/x/image/draw"
)

// Screenshot bounds and layout. Every screenshot advances the row pointer by
// ImageRowStride regardless of its rendered height.
const (
	MaxImageWidth   = 600
	MaxImageHeight  = 400
	ImageRowStride  = 15
	imageColumnWide = 60
	imageRowHeight  = 100
)

// ErrEmptyImage indicates an image with zero width or height.
var ErrEmptyImage = errors.New("empty image")

// ErrUnreadableImage indicates data that is not a PNG, JPEG or GIF image.
var ErrUnreadableImage = errors.New("unreadable image")

// Thumbnail decodes an image, shrinks it to fit MaxImageWidth x
// MaxImageHeight keeping its aspect ratio, and re-encodes it as PNG.
// Images already within bounds are not enlarged.
func Thumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	nw, nh := fitWithin(w, h, MaxImageWidth, MaxImageHeight)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	if nw == w && nh == h {
		draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin returns the largest size with w:h aspect that fits maxW x maxH,
// never larger than w x h.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

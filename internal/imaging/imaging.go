// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging downsizes uploaded cover images with pure Go libraries.
// Images no wider than the limit are returned untouched; wider ones are
// resized to the limit, keeping their aspect ratio.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrUnsupported is returned when the bytes are not a decodable image.
var ErrUnsupported = errors.New("imaging: unsupported image")

// jpegQuality is used whenever the output is JPEG.
const jpegQuality = 85

// Result is the outcome of FitWidth.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

// Dimensions reads the image header without decoding pixel data.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return cfg.Width, cfg.Height, nil
}

// FitWidth shrinks the image to at most maxWidth pixels wide. PNG stays
// PNG; every other format is re-encoded as JPEG because there is no pure
// Go WebP encoder and animated GIF covers are not supported.
func FitWidth(data []byte, contentType string, maxWidth int) (*Result, error) {
	w, h, err := Dimensions(data)
	if err != nil {
		return nil, err
	}
	if maxWidth <= 0 || w <= maxWidth {
		return &Result{Data: data, ContentType: contentType, Width: w, Height: h}, nil
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	resized := imaging.Resize(src, maxWidth, 0, imaging.Lanczos)

	format, outType := imaging.JPEG, "image/jpeg"
	if contentType == "image/png" {
		format, outType = imaging.PNG, "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}

	b := resized.Bounds()
	return &Result{
		Data:        buf.Bytes(),
		ContentType: outType,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Resized:     true,
	}, nil
}

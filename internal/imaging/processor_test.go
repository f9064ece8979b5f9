// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/causewaygrp/finance-cms/internal/model"
)

func makeTestImage(t *testing.T, w, h int, encode func(w io.Writer, img image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestCanThumbnail(t *testing.T) {
	if !CanThumbnail(model.MimeTypeJPEG) || !CanThumbnail(model.MimeTypePNG) || !CanThumbnail(model.MimeTypeWebP) {
		t.Error("raster image types should be thumbnailable")
	}
	if CanThumbnail(model.MimeTypeSVG) {
		t.Error("SVG should not be thumbnailable")
	}
	if CanThumbnail(model.MimeTypePDF) {
		t.Error("PDF should not be thumbnailable")
	}
}

func TestThumbnailShrinksLargeImage(t *testing.T) {
	data := makeTestImage(t, 1200, 800, func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	})

	out, err := Thumbnail(data)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width > ThumbWidth || cfg.Height > ThumbHeight {
		t.Errorf("thumbnail %dx%d exceeds bounds", cfg.Width, cfg.Height)
	}
}

func TestThumbnailKeepsSmallImage(t *testing.T) {
	data := makeTestImage(t, 100, 60, png.Encode)

	out, err := Thumbnail(data)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 60 {
		t.Errorf("small image resized to %dx%d", cfg.Width, cfg.Height)
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	if _, err := Thumbnail([]byte("not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
}

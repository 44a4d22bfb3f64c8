package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"avatar.png", "avatar.png"},
		{"avatar face:1 hair:-3", "avatar face_1 hair_-3"},
		{"a/b\\c", "a_b_c"},
		{"trailing dots...", "trailing dots"},
		{"  multiple   spaces  ", "multiple spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteAndReadFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "out.bin")

	if err := WriteFile(ctx, path, []byte("data")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := ReadFile(ctx, "file://"+filepath.ToSlash(path))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("ReadFile = %q, want %q", got, "data")
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent directory should exist: %v", err)
	}
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestImageService_DecodePNGRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewImageService()

	data, err := svc.EncodePNG(ctx, solid(4, 4, color.RGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := svc.Decode(ctx, data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width = %d, want 4", img.Bounds().Dx())
	}
}

func TestImageService_DecodeGarbage(t *testing.T) {
	if _, err := NewImageService().Decode(context.Background(), []byte("not an image")); err == nil {
		t.Error("expected decode error but got none")
	}
}

func TestImageService_ScaleStretchesNearest(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 0, color.RGBA{B: 255, A: 255})

	dst := NewImageService().Scale(src, 4, 4, false)

	if got := dst.RGBAAt(0, 3); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("left half = %v, want red", got)
	}
	if got := dst.RGBAAt(3, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("right half = %v, want blue", got)
	}
}

func TestImageService_DrawScaledKeepsTransparentPixels(t *testing.T) {
	svc := NewImageService()
	dst := solid(2, 2, color.RGBA{G: 255, A: 255})
	svc.DrawScaled(dst, image.NewRGBA(image.Rect(0, 0, 1, 1)), false)

	if got := dst.RGBAAt(1, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("transparent layer should not erase pixels, got %v", got)
	}
}

func TestImageService_EncodePNGIsValid(t *testing.T) {
	data, err := NewImageService().EncodePNG(context.Background(), solid(1, 1, color.White))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not a valid PNG: %v", err)
	}
}

package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageService provides image processing operations for avatar layers.
//
// ImageService is used to:
//   - Decode layer images (WebP, PNG, JPEG)
//   - Scale images onto a canvas, crisp for pixel art or smooth for previews
//   - Encode the final composite as PNG
//
// Example usage:
//
//	svc := NewImageService()
//
//	img, _ := svc.Decode(ctx, webpBytes)
//	big := svc.Scale(img, 256, 256, false) // nearest-neighbour
//	out, _ := svc.EncodePNG(ctx, big)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Decode decodes image data in any registered format.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Encoded image bytes
func (s *ImageService) Decode(ctx context.Context, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Scale returns src resized to exactly width x height.
//
// The aspect ratio is not preserved: layers are stretched to fill the
// canvas. With smooth=false the nearest-neighbour kernel keeps pixel-art
// edges sharp; with smooth=true an approximate bilinear kernel is used.
func (s *ImageService) Scale(src image.Image, width, height int, smooth bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	s.DrawScaled(dst, src, smooth)
	return dst
}

// DrawScaled draws src over the full bounds of dst, compositing with
// source-over so transparent pixels keep what is already drawn.
func (s *ImageService) DrawScaled(dst draw.Image, src image.Image, smooth bool) {
	var scaler draw.Scaler = draw.NearestNeighbor
	if smooth {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
}

// EncodePNG encodes an image as PNG.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - img: The image to encode
func (s *ImageService) EncodePNG(ctx context.Context, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Reading local asset files and writing rendered output
//   - Filename sanitization for output names
//   - Directory creation
//   - Image decoding, scaling and PNG encoding
//
// # File Operations
//
//	// Write a rendered avatar, creating out/ if needed
//	err := ioutils.WriteFile(ctx, "out/avatar.png", data)
//
//	// Read a local layer
//	data, err := ioutils.ReadFile(ctx, "file:///srv/assets/face/1.webp")
//
// # Image Processing
//
// The ImageService handles avatar layers:
//
//	svc := ioutils.NewImageService()
//
//	img, _ := svc.Decode(ctx, webpData)
//	svc.DrawScaled(canvas, img, false) // crisp pixel-art stretch
//	png, _ := svc.EncodePNG(ctx, canvas)
package ioutils

// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Scoped file creation that never leaves partial files behind
//   - Thumbnail resizing and format conversion
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
//	// Write a file, removing it again if fn fails
//	err := ioutils.CreateScoped(path, func(f *os.File) error {
//	    return client.Transfer(ctx, stream, f, onProgress)
//	})
//
// # Filename Sanitization
//
// Use SanitizeFileName to replace invalid characters in filenames:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService handles video thumbnails saved next to downloads:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 640x640
//	resized, _ := svc.ResizeImage(ctx, imageData, 640, 640)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, webpOrPNGData)
package ioutils

package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
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
		{"normal-file.mp4", "normal-file.mp4"},
		{"file:with:colons.mp4", "file_with_colons.mp4"},
		{"file<with>brackets.mp4", "file_with_brackets.mp4"},
		{"file/with\\slashes.mp4", "file_with_slashes.mp4"},
		{"file|with|pipes.mp4", "file_with_pipes.mp4"},
		{"file?with*wildcards.mp4", "file_with_wildcards.mp4"},
		{"file\"with\"quotes.mp4", "file_with_quotes.mp4"},
		{"tab\there.mp4", "tab_here.mp4"},
		{"keeps trailing dots...", "keeps trailing dots..."},
		{"unicode ✓ stays.webm", "unicode ✓ stays.webm"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeFileName(got); again != got {
				t.Errorf("SanitizeFileName is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCreateScoped(t *testing.T) {
	dir := t.TempDir()

	t.Run("keeps file on success", func(t *testing.T) {
		path := filepath.Join(dir, "ok.bin")
		err := CreateScoped(path, func(f *os.File) error {
			_, err := f.Write([]byte("hello"))
			return err
		})
		if err != nil {
			t.Fatalf("CreateScoped() unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("file content = %q, want %q", data, "hello")
		}
	})

	t.Run("removes partial file on failure", func(t *testing.T) {
		path := filepath.Join(dir, "partial.bin")
		boom := errors.New("boom")
		err := CreateScoped(path, func(f *os.File) error {
			f.Write([]byte("half"))
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("CreateScoped() error = %v, want %v", err, boom)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("partial file still exists (stat err = %v)", err)
		}
	})
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"already fits", 320, 180, 640, 640, 320, 180},
		{"landscape", 1280, 720, 640, 640, 640, 360},
		{"portrait", 720, 1280, 640, 640, 360, 640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitWithin() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_Thumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	svc := NewImageService()
	out, err := svc.Thumbnail(context.Background(), buf.Bytes(), 50)
	if err != nil {
		t.Fatalf("Thumbnail() unexpected error: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Thumbnail() did not produce a JPEG: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 50 || got.Y != 25 {
		t.Errorf("thumbnail size = %v, want 50x25", got)
	}
}

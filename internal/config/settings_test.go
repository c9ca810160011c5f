package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/handiism/youtube-player/internal/model"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	defaults := DefaultSettings()
	if settings.CaptionLanguage != defaults.CaptionLanguage || settings.ChunkSize != defaults.ChunkSize {
		t.Errorf("Load() = %+v, want defaults", settings)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	settings := DefaultSettings()
	settings.DownloadsPath = "/videos"
	settings.RendererContainers = []string{"webm"}
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.DownloadsPath != "/videos" {
		t.Errorf("DownloadsPath = %q, want /videos", loaded.DownloadsPath)
	}
	if !slices.Equal(loaded.RendererContainers, []string{"webm"}) {
		t.Errorf("RendererContainers = %v, want [webm]", loaded.RendererContainers)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"caption_language": "fr"}`), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if settings.CaptionLanguage != "fr" {
		t.Errorf("CaptionLanguage = %q, want fr", settings.CaptionLanguage)
	}
	if settings.FrameRate != DefaultSettings().FrameRate {
		t.Errorf("FrameRate = %d, want default", settings.FrameRate)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("YTPLAYER_CAPTION_LANGUAGE", "de")
	t.Setenv("YTPLAYER_RENDERER_MAX_HEIGHT", "720")
	t.Setenv("YTPLAYER_RENDERER_CONTAINERS", "mp4,3gpp")

	settings := DefaultSettings()
	if err := settings.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() unexpected error: %v", err)
	}

	if settings.CaptionLanguage != "de" {
		t.Errorf("CaptionLanguage = %q, want de", settings.CaptionLanguage)
	}
	if settings.RendererMaxHeight != 720 {
		t.Errorf("RendererMaxHeight = %d, want 720", settings.RendererMaxHeight)
	}
	want := []model.Container{model.ContainerMP4, model.Container3GPP}
	if got := settings.Containers(); !slices.Equal(got, want) {
		t.Errorf("Containers() = %v, want %v", got, want)
	}
	if settings.PlayerCommand != "mpv" {
		t.Errorf("PlayerCommand = %q, want unset variable to keep default", settings.PlayerCommand)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("YTPLAYER_FRAME_RATE", "fast")

	if err := DefaultSettings().ApplyEnv(); err == nil {
		t.Error("ApplyEnv() expected error for non-numeric frame rate")
	}
}

func TestRetryDelay(t *testing.T) {
	settings := &Settings{DownloadRetryCooldown: 0.5, DownloadRetryExponent: 2}

	tests := []struct {
		tries int
		want  time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, time.Second},
		{3, 4 * time.Second},
	}

	for _, tt := range tests {
		if got := settings.RetryDelay(tt.tries); got != tt.want {
			t.Errorf("RetryDelay(%d) = %v, want %v", tt.tries, got, tt.want)
		}
	}
}

func TestFrameInterval(t *testing.T) {
	if got := (&Settings{FrameRate: 50}).FrameInterval(); got != 20*time.Millisecond {
		t.Errorf("FrameInterval() = %v, want 20ms", got)
	}
	if got := (&Settings{}).FrameInterval(); got != time.Second/30 {
		t.Errorf("FrameInterval() with zero rate = %v, want 1/30s", got)
	}
}

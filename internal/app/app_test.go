package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/handiism/youtube-player/internal/config"
	"github.com/handiism/youtube-player/internal/download"
	"github.com/handiism/youtube-player/internal/logging"
	"github.com/handiism/youtube-player/internal/model"
	"github.com/handiism/youtube-player/internal/player"
)

type fakeRemote struct{}

func (fakeRemote) ResolveMetadata(ctx context.Context, id model.Identifier) (*model.Video, error) {
	return &model.Video{ID: id, Title: "Video " + string(id)}, nil
}

func (fakeRemote) ResolveStreams(ctx context.Context, id model.Identifier) (model.StreamSet, error) {
	return model.StreamSet{
		{VideoID: id, Itag: 18, Quality: 360, Muxed: true, HasVideo: true, HasAudio: true, Container: model.ContainerMP4, URL: "https://example.com/" + string(id)},
	}, nil
}

func (fakeRemote) Transfer(ctx context.Context, stream model.StreamDescriptor, w io.Writer, onProgress func(written, total int64)) (int64, error) {
	n, err := w.Write([]byte("video"))
	onProgress(int64(n), 5)
	return int64(n), err
}

func (fakeRemote) FetchThumbnail(ctx context.Context, url string) ([]byte, error) {
	return nil, model.ErrNotFound
}

func (fakeRemote) ResolveCaptionDescriptors(ctx context.Context, id model.Identifier) ([]model.CaptionTrackDescriptor, error) {
	return []model.CaptionTrackDescriptor{{VideoID: id, LanguageCode: "en"}}, nil
}

func (fakeRemote) FetchCaptionTrack(ctx context.Context, d model.CaptionTrackDescriptor) (*model.CaptionTrack, error) {
	return &model.CaptionTrack{Descriptor: d}, nil
}

func newTestApp() (*App, *player.MemorySink) {
	sink := player.NewMemorySink()
	logger := logging.New("panic", io.Discard, logging.FormatText)
	return assemble(config.DefaultSettings(), logger, fakeRemote{}, sink), sink
}

func drain(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for a.Scheduler.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not become idle")
		}
		time.Sleep(time.Millisecond)
		a.Scheduler.Tick()
	}
}

func TestApp_SharedLastID(t *testing.T) {
	a, sink := newTestApp()
	ctx := context.Background()

	if _, err := a.StartCaptions(ctx, "").Wait(ctx); !errors.Is(err, model.ErrInvalidIdentifier) {
		t.Fatalf("captions before any playback: error = %v, want ErrInvalidIdentifier", err)
	}

	var started []model.Identifier
	a.Player.OnVideoStarting(func(id model.Identifier) { started = append(started, id) })
	a.Player.PlayByID(ctx, "abc123", nil)
	drain(t, a)

	if sink.URL() != "https://example.com/abc123" {
		t.Fatalf("sink URL = %q", sink.URL())
	}
	if !slices.Equal(started, []model.Identifier{"abc123"}) {
		t.Errorf("started = %v", started)
	}

	dir := t.TempDir()
	path, err := a.StartDownload(ctx, download.Request{DestinationFolder: dir}).Wait(ctx)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if path != filepath.Join(dir, "Video abc123.mp4") {
		t.Errorf("download path = %q", path)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "video" {
		t.Errorf("downloaded %q, %v", data, err)
	}

	track, err := a.StartCaptions(ctx, "").Wait(ctx)
	if err != nil || track == nil || track.Descriptor.VideoID != "abc123" {
		t.Errorf("captions = %+v, %v, want track of abc123", track, err)
	}
}

func TestProfile(t *testing.T) {
	settings := config.DefaultSettings()
	settings.RendererMaxHeight = 480
	settings.RendererContainers = []string{"webm", "flv"}

	profile := Profile(settings)
	if profile.MaxHeight != 480 {
		t.Errorf("MaxHeight = %d, want 480", profile.MaxHeight)
	}
	if !slices.Equal(profile.Containers, []model.Container{model.ContainerWebM}) {
		t.Errorf("Containers = %v, want [webm]", profile.Containers)
	}
}

func TestNew(t *testing.T) {
	logger := logging.New("panic", io.Discard, logging.FormatText)
	a := New(config.DefaultSettings(), logger, player.NewMemorySink())

	if a.Client == nil || a.Player == nil || a.Downloads == nil || a.Captions == nil {
		t.Errorf("New() left components unset: %+v", a)
	}
}

package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/handiism/youtube-player/internal/app"
	"github.com/handiism/youtube-player/internal/async"
	"github.com/handiism/youtube-player/internal/captions"
	"github.com/handiism/youtube-player/internal/config"
	"github.com/handiism/youtube-player/internal/download"
	httpclient "github.com/handiism/youtube-player/internal/http"
	"github.com/handiism/youtube-player/internal/logging"
	"github.com/handiism/youtube-player/internal/model"
	"github.com/handiism/youtube-player/internal/player"
	"github.com/handiism/youtube-player/internal/youtube"
)

const videoID = "dQw4w9WgXcQ"

type fakeRemote struct {
	streamsErr error
}

func (f fakeRemote) ResolveMetadata(ctx context.Context, id model.Identifier) (*model.Video, error) {
	return &model.Video{ID: id, Title: "Never Gonna"}, nil
}

func (f fakeRemote) ResolveStreams(ctx context.Context, id model.Identifier) (model.StreamSet, error) {
	if f.streamsErr != nil {
		return nil, f.streamsErr
	}
	return model.StreamSet{
		{VideoID: id, Itag: 18, Quality: 360, Muxed: true, HasVideo: true, HasAudio: true, Container: model.ContainerMP4, URL: "https://example.com/" + string(id)},
	}, nil
}

func (f fakeRemote) Transfer(ctx context.Context, stream model.StreamDescriptor, w io.Writer, onProgress func(written, total int64)) (int64, error) {
	n, err := w.Write([]byte("video"))
	onProgress(int64(n), int64(n))
	return int64(n), err
}

func (f fakeRemote) FetchThumbnail(ctx context.Context, url string) ([]byte, error) {
	return nil, model.ErrNotFound
}

func (f fakeRemote) ResolveCaptionDescriptors(ctx context.Context, id model.Identifier) ([]model.CaptionTrackDescriptor, error) {
	return []model.CaptionTrackDescriptor{{VideoID: id, LanguageCode: "en"}}, nil
}

func (f fakeRemote) FetchCaptionTrack(ctx context.Context, d model.CaptionTrackDescriptor) (*model.CaptionTrack, error) {
	return &model.CaptionTrack{Descriptor: d, Cues: []model.Cue{
		{Offset: 0, Duration: time.Second, Text: "We're no strangers"},
	}}, nil
}

func newTestModel(t *testing.T, remote fakeRemote) (Model, *player.MemorySink) {
	t.Helper()

	settings := config.DefaultSettings()
	settings.DownloadsPath = t.TempDir()
	settings.SaveThumbnail = false

	logger := logging.New("info", io.Discard, logging.FormatText)
	hook := logging.NewHook(logrus.InfoLevel, 64)
	logger.AddHook(hook)

	sched := async.NewScheduler()
	lastID := &model.LastID{}
	sink := player.NewMemorySink()

	a := &app.App{
		Settings:  settings,
		Logger:    logger,
		Client:    youtube.NewClient(httpclient.NewClient(), logging.Discard()),
		Scheduler: sched,
		LastID:    lastID,
		Sink:      sink,
		Player:    player.NewController(remote, sched, sink, app.Profile(settings), lastID, logging.Component(logger, "player")),
		Downloads: download.NewController(remote, lastID, settings, logging.Component(logger, "download")),
		Captions:  captions.NewFetcher(remote, lastID, settings.CaptionLanguage, logging.Component(logger, "captions")),
	}

	m := NewModel(a, hook)
	t.Cleanup(m.cancel)
	return m, sink
}

func send(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// frames sends frame messages until done reports true.
func frames(t *testing.T, m Model, done func(Model) bool) Model {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !done(m) {
		if time.Now().After(deadline) {
			t.Fatal("model did not settle")
		}
		time.Sleep(time.Millisecond)
		m = send(m, frameMsg(time.Now()))
	}
	return m
}

func idle(m Model) bool {
	return !m.resolving && !m.captionsLoading && m.download == nil
}

func TestModel_PlayPrefetchesCaptions(t *testing.T) {
	m, sink := newTestModel(t, fakeRemote{})

	m.textInput.SetValue("https://www.youtube.com/watch?v=" + videoID)
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.resolving {
		t.Fatal("enter did not start resolving")
	}

	m = frames(t, m, idle)

	if m.nowPlaying != videoID {
		t.Errorf("nowPlaying = %q, want %q", m.nowPlaying, videoID)
	}
	if sink.URL() != "https://example.com/"+videoID {
		t.Errorf("sink URL = %q", sink.URL())
	}
	if m.track == nil || len(m.track.Cues) != 1 {
		t.Fatalf("track = %+v, want prefetched captions", m.track)
	}
	if !strings.Contains(m.View(), "Now playing: "+videoID) {
		t.Errorf("View() does not show the playing video:\n%s", m.View())
	}
}

func TestModel_PlayFailureStopsResolving(t *testing.T) {
	m, _ := newTestModel(t, fakeRemote{streamsErr: model.ErrNotFound})

	m.textInput.SetValue(videoID)
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = frames(t, m, idle)

	if m.nowPlaying != "" {
		t.Errorf("nowPlaying = %q, want none", m.nowPlaying)
	}

	var logged bool
	for _, entry := range m.logs {
		if entry.Level == logrus.ErrorLevel && strings.Contains(entry.Message, "Failed to resolve streams") {
			logged = true
		}
	}
	if !logged {
		t.Errorf("logs = %+v, want the resolution failure", m.logs)
	}
}

func TestModel_EmptyInput(t *testing.T) {
	m, _ := newTestModel(t, fakeRemote{})

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if !errors.Is(m.err, model.ErrInvalidIdentifier) {
		t.Errorf("err = %v, want ErrInvalidIdentifier", m.err)
	}
	if m.resolving {
		t.Error("empty input started playback")
	}
}

func TestModel_DownloadLastPlayed(t *testing.T) {
	m, _ := newTestModel(t, fakeRemote{})

	m.textInput.SetValue(videoID)
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = frames(t, m, idle)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.download == nil {
		t.Fatal("ctrl+s did not start a download")
	}
	m = frames(t, m, idle)

	want := filepath.Join(m.app.Settings.DownloadsPath, "Never Gonna.mp4")
	if m.lastSaved != want {
		t.Errorf("lastSaved = %q, want %q", m.lastSaved, want)
	}
	if data, err := os.ReadFile(want); err != nil || string(data) != "video" {
		t.Errorf("downloaded %q, %v", data, err)
	}
}

func TestModel_ExportCaptions(t *testing.T) {
	m, _ := newTestModel(t, fakeRemote{})

	m.textInput.SetValue(videoID)
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m = frames(t, m, idle)

	path := filepath.Join(m.app.Settings.DownloadsPath, videoID+".en.srt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,000\nWe're no strangers\n\n"
	if string(data) != want {
		t.Errorf("srt = %q, want %q", data, want)
	}
}

func TestOutbox(t *testing.T) {
	box := &outbox{}
	box.push(playStartedMsg{ID: "a"})
	box.push(videoStartingMsg{ID: "a"})

	if got := box.drain(); len(got) != 2 {
		t.Fatalf("drain() returned %d messages, want 2", len(got))
	}
	if got := box.drain(); len(got) != 0 {
		t.Errorf("second drain() returned %d messages, want 0", len(got))
	}
}

package app

import (
	"context"

	"github.com/sirupsen/logrus"

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

// App holds the components shared by a host: one scheduler, one remembered
// identifier and the three controllers built on them.
type App struct {
	Settings  *config.Settings
	Logger    *logrus.Logger
	Client    *youtube.Client
	Scheduler *async.Scheduler
	LastID    *model.LastID
	Sink      player.Sink

	Player    *player.Controller
	Downloads *download.Controller
	Captions  *captions.Fetcher
}

// New wires an App around sink.
func New(settings *config.Settings, logger *logrus.Logger, sink player.Sink) *App {
	hc := httpclient.NewClient(
		httpclient.WithTimeout(settings.Timeout()),
		httpclient.WithChunkSize(settings.ChunkSize),
	)
	client := youtube.NewClient(hc, logging.Component(logger, "youtube"))

	return assemble(settings, logger, client, sink)
}

// remote is everything the controllers need from the video service.
type remote interface {
	player.StreamResolver
	download.Source
	captions.Source
}

func assemble(settings *config.Settings, logger *logrus.Logger, client remote, sink player.Sink) *App {
	sched := async.NewScheduler()
	lastID := &model.LastID{}

	playback := player.NewController(client, sched, sink, Profile(settings), lastID, logging.Component(logger, "player"))
	downloads := download.NewController(client, lastID, settings, logging.Component(logger, "download"))
	fetcher := captions.NewFetcher(client, lastID, settings.CaptionLanguage, logging.Component(logger, "captions"))

	a := &App{
		Settings:  settings,
		Logger:    logger,
		Scheduler: sched,
		LastID:    lastID,
		Sink:      sink,
		Player:    playback,
		Downloads: downloads,
		Captions:  fetcher,
	}
	if yt, ok := client.(*youtube.Client); ok {
		a.Client = yt
	}
	return a
}

// Profile derives the renderer profile from settings.
func Profile(settings *config.Settings) player.RendererProfile {
	return player.RendererProfile{
		MaxHeight:  settings.RendererMaxHeight,
		Containers: settings.Containers(),
	}
}

// StartDownload runs a download on its own goroutine.
//
// The handle resolves to the created file's path, or to "" if the download
// failed; the reason is logged.
func (a *App) StartDownload(ctx context.Context, req download.Request) *async.Pending[string] {
	return async.Go(ctx, func(ctx context.Context) (string, error) {
		return a.Downloads.Download(ctx, req), nil
	})
}

// StartCaptions fetches the captions of id on its own goroutine.
func (a *App) StartCaptions(ctx context.Context, id model.Identifier) *async.Pending[*model.CaptionTrack] {
	return async.Go(ctx, func(ctx context.Context) (*model.CaptionTrack, error) {
		return a.Captions.Fetch(ctx, id)
	})
}

package player

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/handiism/youtube-player/internal/async"
	"github.com/handiism/youtube-player/internal/logging"
	"github.com/handiism/youtube-player/internal/model"
)

// StreamResolver resolves the streams of a video.
type StreamResolver interface {
	ResolveStreams(ctx context.Context, id model.Identifier) (model.StreamSet, error)
}

type subscriber struct {
	id int
	fn func(model.Identifier)
}

// Controller starts playback of videos on a Sink.
//
// Stream resolution runs off the scheduler goroutine; the Controller only
// suspends on it and touches the sink from the scheduler. PlayByID,
// OnVideoStarting and Scheduler.Tick must all be called from that one
// goroutine.
type Controller struct {
	resolver StreamResolver
	sched    *async.Scheduler
	sink     Sink
	profile  RendererProfile
	lastID   *model.LastID
	log      *logrus.Entry

	subscribers []subscriber
	nextSub     int
}

// NewController creates a playback Controller.
func NewController(resolver StreamResolver, sched *async.Scheduler, sink Sink, profile RendererProfile, lastID *model.LastID, log *logrus.Entry) *Controller {
	return &Controller{
		resolver: resolver,
		sched:    sched,
		sink:     sink,
		profile:  profile,
		lastID:   lastID,
		log:      log,
	}
}

// OnVideoStarting registers fn to be called with the identifier of every
// video that starts playing. The returned function unregisters it.
func (c *Controller) OnVideoStarting(fn func(model.Identifier)) (unsubscribe func()) {
	c.nextSub++
	id := c.nextSub
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range c.subscribers {
			if sub.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// PlayByID resolves the best playable stream of id and plays it.
//
// An empty id replays the last identifier played. PlayByID returns at
// once; the rest happens on later scheduler ticks. Once the sink is
// playing, onComplete (if not nil) is called with the identifier, and then
// every OnVideoStarting subscriber.
//
// Failures are logged and never reported to the caller: playback simply
// does not start and the sink is left as it was.
func (c *Controller) PlayByID(ctx context.Context, id model.Identifier, onComplete func(model.Identifier)) {
	log := logging.Operation(c.log)

	id, err := c.lastID.Resolve(id)
	if err != nil {
		log.WithError(err).Error("Cannot start playback")
		return
	}
	c.lastID.Remember(id)

	log = log.WithField("video_id", id)
	log.Debug("Resolving streams")

	streams := async.Go(ctx, func(ctx context.Context) (model.StreamSet, error) {
		return c.resolver.ResolveStreams(ctx, id)
	})

	async.SuspendUntil(c.sched, streams, func(set model.StreamSet, err error) {
		if err != nil {
			log.WithError(err).Error("Failed to resolve streams")
			return
		}

		if err := c.start(id, set, log); err != nil {
			log.WithError(err).Error("Failed to start playback")
			return
		}

		if onComplete != nil {
			onComplete(id)
		}
		c.broadcast(id)
	})
}

func (c *Controller) start(id model.Identifier, set model.StreamSet, log *logrus.Entry) error {
	stream, err := set.BestPlayable(c.profile.Supports)
	if err != nil {
		return fmt.Errorf("video %s: %w", id, err)
	}

	prevSource, prevURL := c.sink.Source(), c.sink.URL()
	c.sink.SetSource(SourceURL)

	// Assigning the loaded URL again would restart it from zero.
	if prevURL != stream.URL {
		c.sink.SetURL(stream.URL)
	}

	if err := c.sink.Play(); err != nil {
		c.sink.SetSource(prevSource)
		if c.sink.URL() != prevURL {
			c.sink.SetURL(prevURL)
		}
		return fmt.Errorf("video %s: %w", id, err)
	}

	log.WithFields(logrus.Fields{
		"itag":    stream.Itag,
		"quality": stream.QualityLabel,
		"muxed":   stream.Muxed,
	}).Info("Playing video")

	return nil
}

func (c *Controller) broadcast(id model.Identifier) {
	for _, sub := range c.subscribers {
		sub.fn(id)
	}
}

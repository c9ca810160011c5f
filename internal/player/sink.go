package player

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// Source is where a sink reads media from.
type Source int

const (
	SourceNone Source = iota
	SourceURL
)

func (s Source) String() string {
	switch s {
	case SourceURL:
		return "url"
	default:
		return "none"
	}
}

// Sink is the media player a Controller drives.
//
// Assigning a URL to a sink may restart playback from the beginning, even
// when it is the URL already loaded.
type Sink interface {
	Source() Source
	SetSource(source Source)
	URL() string
	SetURL(url string)
	Play() error
}

var (
	// ErrNoURL is returned by Play when no URL has been set.
	ErrNoURL = errors.New("no url loaded")

	// ErrNotURLSource is returned by Play when the sink is not in URL mode.
	ErrNotURLSource = errors.New("sink source is not a url")
)

// MemorySink records what it is asked to play without playing anything.
// Interactive hosts use it to show what is loaded.
type MemorySink struct {
	source  Source
	url     string
	urlSets int
	plays   int
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) SetSource(source Source) { s.source = source }

func (s *MemorySink) URL() string { return s.url }

func (s *MemorySink) SetURL(url string) {
	s.url = url
	s.urlSets++
}

func (s *MemorySink) Play() error {
	if s.source != SourceURL {
		return ErrNotURLSource
	}
	if s.url == "" {
		return ErrNoURL
	}
	s.plays++
	return nil
}

// Source returns the current source mode.
func (s *MemorySink) Source() Source { return s.source }

// URLSets returns how many times SetURL was called.
func (s *MemorySink) URLSets() int { return s.urlSets }

// Plays returns how many times Play succeeded.
func (s *MemorySink) Plays() int { return s.plays }

// ExecSink plays by launching an external player command (mpv, vlc, ...)
// with the URL as its last argument.
//
// The process is restarted only when the URL differs from the one it was
// launched with; calling Play again for the loaded URL leaves a running
// player alone. If a new player fails to start, the running one is kept.
type ExecSink struct {
	command string
	args    []string
	log     *logrus.Entry

	mu       sync.Mutex
	source   Source
	url      string
	launched string
	cmd      *exec.Cmd
	done     chan struct{}
}

// NewExecSink creates a sink running command with args followed by the URL.
func NewExecSink(command string, args []string, log *logrus.Entry) *ExecSink {
	return &ExecSink{
		command: command,
		args:    slices.Clone(args),
		log:     log,
	}
}

func (s *ExecSink) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *ExecSink) SetSource(source Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

func (s *ExecSink) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

func (s *ExecSink) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
}

// Play starts the player if it is not running or its URL changed.
func (s *ExecSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source != SourceURL {
		return ErrNotURLSource
	}
	if s.url == "" {
		return ErrNoURL
	}
	if s.runningLocked() && s.url == s.launched {
		return nil
	}

	cmd := exec.Command(s.command, append(slices.Clone(s.args), s.url)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", s.command, err)
	}
	s.stopLocked()

	done := make(chan struct{})
	go func() {
		if err := cmd.Wait(); err != nil {
			s.log.WithError(err).Debug("Player exited")
		}
		close(done)
	}()

	s.cmd, s.done, s.launched = cmd, done, s.url
	s.log.WithFields(logrus.Fields{
		"command": s.command,
		"pid":     cmd.Process.Pid,
	}).Info("Started player")

	return nil
}

// Running reports whether the player process is alive.
func (s *ExecSink) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

// Wait blocks until the current player process exits.
func (s *ExecSink) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Stop kills the player process, if any.
func (s *ExecSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *ExecSink) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *ExecSink) stopLocked() {
	if !s.runningLocked() {
		return
	}
	_ = s.cmd.Process.Kill()
	<-s.done
}

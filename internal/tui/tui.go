// Package tui provides a Bubble Tea terminal user interface for youtube-player.
package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/handiism/youtube-player/internal/app"
	"github.com/handiism/youtube-player/internal/async"
	"github.com/handiism/youtube-player/internal/captions"
	"github.com/handiism/youtube-player/internal/config"
	"github.com/handiism/youtube-player/internal/download"
	ioutils "github.com/handiism/youtube-player/internal/io"
	"github.com/handiism/youtube-player/internal/logging"
	"github.com/handiism/youtube-player/internal/model"
	"github.com/handiism/youtube-player/internal/player"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   logrus.Level
}

// Message types
type (
	// frameMsg advances the scheduler by one tick.
	frameMsg time.Time

	// playStartedMsg is sent when the player has started a video.
	playStartedMsg struct {
		ID model.Identifier
	}

	// videoStartingMsg is the "video starting" broadcast.
	videoStartingMsg struct {
		ID model.Identifier
	}

	// captionsMsg carries a fetched caption track.
	captionsMsg struct {
		ID     model.Identifier
		Track  *model.CaptionTrack
		Err    error
		Export bool
	}

	// downloadDoneMsg is sent when a download has finished. An empty Path
	// means it failed.
	downloadDoneMsg struct {
		Path string
	}
)

// outbox collects messages produced by scheduler continuations during a
// tick, to be handled right after it.
type outbox struct {
	msgs []tea.Msg
}

func (o *outbox) push(msg tea.Msg) {
	o.msgs = append(o.msgs, msg)
}

func (o *outbox) drain() []tea.Msg {
	msgs := o.msgs
	o.msgs = nil
	return msgs
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	app      *app.App
	hook     *logging.Hook
	interval time.Duration
	outbox   *outbox

	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	logs      []LogEntry
	err       error

	// Application lifetime
	ctx    context.Context
	cancel context.CancelFunc

	// Playback
	resolving  bool
	nowPlaying model.Identifier

	// Captions
	captionsLoading bool
	track           *model.CaptionTrack

	// Download
	download         *async.Pending[string]
	downloadCancel   context.CancelFunc
	downloadFraction *atomic.Uint64
	lastSaved        string

	width  int
	height int
}

// NewModel creates a new TUI model around a, mirroring log entries captured
// by hook.
func NewModel(a *app.App, hook *logging.Hook) Model {
	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=VIDEO_ID"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	box := &outbox{}
	a.Player.OnVideoStarting(func(id model.Identifier) {
		box.push(videoStartingMsg{ID: id})
	})

	return Model{
		app:              a,
		hook:             hook,
		interval:         a.Settings.FrameInterval(),
		outbox:           box,
		textInput:        ti,
		spinner:          sp,
		progress:         prog,
		logs:             make([]LogEntry, 0),
		ctx:              ctx,
		cancel:           cancel,
		downloadFraction: &atomic.Uint64{},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.nextFrame())
}

// nextFrame schedules the next scheduler tick.
func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.shutdown()
			return m, tea.Quit

		case "esc":
			if m.download != nil {
				m.downloadCancel()
				m.app.Logger.Warn("Cancelling download")
				return m, nil
			}
			m.shutdown()
			return m, tea.Quit

		case "enter":
			m = m.play()
			return m, nil

		case "ctrl+s":
			m = m.startDownload()
			return m, nil

		case "ctrl+t":
			m = m.exportCaptions()
			return m, nil
		}

	case frameMsg:
		m = m.frame()
		cmds = append(cmds, m.nextFrame())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// frame runs one scheduler tick and folds everything that completed into
// the model.
func (m Model) frame() Model {
	m.app.Scheduler.Tick()

	for _, msg := range m.outbox.drain() {
		m = m.handle(msg)
	}

	if m.download != nil && m.download.Ready() {
		path, _ := m.download.Take()
		m.downloadCancel()
		m.download = nil
		m = m.handle(downloadDoneMsg{Path: path})
	}

	m.collectLogs()
	return m
}

func (m Model) handle(msg tea.Msg) Model {
	switch msg := msg.(type) {
	case playStartedMsg:
		m.resolving = false
		m.nowPlaying = msg.ID
		m.err = nil

	case videoStartingMsg:
		m = m.fetchCaptions(msg.ID, false)

	case captionsMsg:
		m.captionsLoading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.app.Logger.WithError(msg.Err).Error("Failed to fetch captions")
			break
		}
		m.track = msg.Track
		if msg.Export {
			m.saveCaptions(msg.ID, msg.Track)
		}

	case downloadDoneMsg:
		if msg.Path != "" {
			m.lastSaved = msg.Path
		}
	}
	return m
}

// input returns the identifier typed by the user, or "" to reuse the last
// one.
func (m Model) input() (model.Identifier, error) {
	value := strings.TrimSpace(m.textInput.Value())
	if value == "" {
		if m.app.LastID.Get() == "" {
			return "", fmt.Errorf("enter a video URL: %w", model.ErrInvalidIdentifier)
		}
		return "", nil
	}
	return m.app.Client.ExtractID(value)
}

func (m Model) play() Model {
	id, err := m.input()
	if err != nil {
		m.err = err
		return m
	}

	m.err = nil
	m.resolving = true
	box := m.outbox
	m.app.Player.PlayByID(m.ctx, id, func(id model.Identifier) {
		box.push(playStartedMsg{ID: id})
	})
	m.textInput.SetValue("")
	return m
}

func (m Model) startDownload() Model {
	if m.download != nil {
		return m
	}
	id, err := m.input()
	if err != nil {
		m.err = err
		return m
	}

	m.err = nil
	m.downloadFraction.Store(0)
	fraction := m.downloadFraction

	ctx, cancel := context.WithCancel(m.ctx)
	m.downloadCancel = cancel
	m.download = m.app.StartDownload(ctx, download.Request{
		DestinationFolder: m.app.Settings.DownloadsPath,
		ID:                id,
		Progress: func(f float64) {
			fraction.Store(math.Float64bits(f))
		},
	})
	return m
}

func (m Model) exportCaptions() Model {
	id, err := m.input()
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	return m.fetchCaptions(id, true)
}

func (m Model) fetchCaptions(id model.Identifier, export bool) Model {
	m.captionsLoading = true
	box := m.outbox

	if id == "" {
		id = m.app.LastID.Get()
	}
	pending := m.app.StartCaptions(m.ctx, id)
	async.SuspendUntil(m.app.Scheduler, pending, func(track *model.CaptionTrack, err error) {
		box.push(captionsMsg{ID: id, Track: track, Err: err, Export: export})
	})
	return m
}

func (m Model) saveCaptions(id model.Identifier, track *model.CaptionTrack) {
	if track == nil {
		m.app.Logger.WithField("video_id", id).Warn("Video has no captions")
		return
	}

	dir := m.app.Settings.DownloadsPath
	if err := ioutils.EnsureDir(dir); err != nil {
		m.app.Logger.WithError(err).Error("Failed to create downloads folder")
		return
	}

	path := filepath.Join(dir, captions.FileName(ioutils.SanitizeFileName(string(id)), track))
	err := ioutils.CreateScoped(path, func(f *os.File) error {
		return captions.WriteSRT(f, track)
	})
	if err != nil {
		m.app.Logger.WithError(err).Error("Failed to save captions")
		return
	}
	m.app.Logger.WithField("path", path).Info("Saved captions")
}

// collectLogs moves captured log entries into the log panel.
func (m *Model) collectLogs() {
	if m.hook == nil {
		return
	}
	for _, rec := range m.hook.Drain() {
		if rec.Level <= logrus.ErrorLevel && rec.Fields["component"] == "player" {
			// Playback failures are only ever logged.
			m.resolving = false
		}

		message := rec.Message
		if err, ok := rec.Fields[logrus.ErrorKey]; ok {
			message = fmt.Sprintf("%s: %v", message, err)
		}
		m.logs = append(m.logs, LogEntry{Message: message, Level: rec.Level})
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) shutdown() {
	m.cancel()
	if sink, ok := m.app.Sink.(*player.ExecSink); ok {
		sink.Stop()
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▶ YouTube Player"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Play, download and caption YouTube videos"))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Video URL or ID:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.viewStatus())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewStatus() string {
	var b strings.Builder

	switch {
	case m.resolving:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Resolving streams..."))
	case m.nowPlaying != "":
		b.WriteString(successStyle.Render(fmt.Sprintf("Now playing: %s", m.nowPlaying)))
	default:
		b.WriteString(dimStyle.Render("Nothing playing"))
	}
	b.WriteString("\n")

	switch {
	case m.captionsLoading:
		b.WriteString(infoStyle.Render("Captions: loading..."))
	case m.track != nil:
		b.WriteString(infoStyle.Render(fmt.Sprintf("Captions: %s (%d cues)", m.track.Descriptor.LanguageCode, len(m.track.Cues))))
	default:
		b.WriteString(dimStyle.Render("Captions: none"))
	}
	b.WriteString("\n")

	if m.download != nil {
		fraction := math.Float64frombits(m.downloadFraction.Load())
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(fraction))
		b.WriteString("\n")
	}

	if m.lastSaved != "" {
		b.WriteString(successStyle.Render("✓ Saved " + m.lastSaved))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.app.Settings.DownloadsPath)))
	b.WriteString("\n")

	return boxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
			style = errorStyle
			prefix = "✗"
		case logrus.WarnLevel:
			style = warningStyle
			prefix = "!"
		case logrus.InfoLevel:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	if m.download != nil {
		return "enter: play • ctrl+t: save captions • esc: cancel download"
	}
	return "enter: play • ctrl+s: download • ctrl+t: save captions • esc: quit"
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	logFile, err := logging.OpenFile(settings.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := logging.New(settings.LogLevel, logFile, logging.FormatJSON)
	hook := logging.NewHook(logrus.InfoLevel, 256)
	logger.AddHook(hook)

	var sink player.Sink = player.NewMemorySink()
	if settings.PlayerCommand != "" {
		sink = player.NewExecSink(settings.PlayerCommand, settings.PlayerArgs, logging.Component(logger, "sink"))
	}

	a := app.New(settings, logger, sink)

	p := tea.NewProgram(NewModel(a, hook), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

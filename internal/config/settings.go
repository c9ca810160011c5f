package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/handiism/youtube-player/internal/model"
)

// EnvPrefix is the prefix of every environment variable that overrides a
// setting, e.g. YTPLAYER_DOWNLOADS_PATH.
const EnvPrefix = "YTPLAYER"

const appName = "ytplayer"

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath         string  `json:"downloads_path"          envconfig:"DOWNLOADS_PATH"`
	ChunkSize             int64   `json:"chunk_size"              envconfig:"CHUNK_SIZE"`
	HTTPTimeout           float64 `json:"http_timeout"            envconfig:"HTTP_TIMEOUT"`
	DownloadMaxRetries    int     `json:"download_max_retries"    envconfig:"DOWNLOAD_MAX_RETRIES"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown" envconfig:"DOWNLOAD_RETRY_COOLDOWN"`
	DownloadRetryExponent float64 `json:"download_retry_exponent" envconfig:"DOWNLOAD_RETRY_EXPONENT"`

	// Thumbnail settings
	SaveThumbnail         bool `json:"save_thumbnail"           envconfig:"SAVE_THUMBNAIL"`
	ThumbnailResize       bool `json:"thumbnail_resize"         envconfig:"THUMBNAIL_RESIZE"`
	ThumbnailMaxSize      int  `json:"thumbnail_max_size"       envconfig:"THUMBNAIL_MAX_SIZE"`
	ConvertThumbnailToJPG bool `json:"convert_thumbnail_to_jpg" envconfig:"CONVERT_THUMBNAIL_TO_JPG"`

	// Caption settings
	CaptionLanguage string `json:"caption_language" envconfig:"CAPTION_LANGUAGE"`

	// Playback settings
	FrameRate          int      `json:"frame_rate"          envconfig:"FRAME_RATE"`
	RendererMaxHeight  int      `json:"renderer_max_height" envconfig:"RENDERER_MAX_HEIGHT"`
	RendererContainers []string `json:"renderer_containers" envconfig:"RENDERER_CONTAINERS"`
	PlayerCommand      string   `json:"player_command"      envconfig:"PLAYER_COMMAND"`
	PlayerArgs         []string `json:"player_args"         envconfig:"PLAYER_ARGS"`

	// Logging settings
	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL"`
	LogFile  string `json:"log_file"  envconfig:"LOG_FILE"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath:         filepath.Join(homeDir, "Videos", "YouTube"),
		ChunkSize:             10 * 1024 * 1024,
		HTTPTimeout:           60,
		DownloadMaxRetries:    7,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,

		SaveThumbnail:         false,
		ThumbnailResize:       true,
		ThumbnailMaxSize:      1280,
		ConvertThumbnailToJPG: true,

		CaptionLanguage: "en",

		FrameRate:          30,
		RendererMaxHeight:  1080,
		RendererContainers: []string{"mp4", "webm"},
		PlayerCommand:      "mpv",

		LogLevel: "info",
		LogFile:  filepath.Join(os.TempDir(), appName+".log"),
	}
}

// DefaultPath returns the settings file location in the user's config
// directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName, "settings.json")
}

// Load reads settings from a JSON file and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing settings file: %w", err)
		}
	}

	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}

	return settings, nil
}

// ApplyEnv overrides settings from YTPLAYER_* environment variables. Unset
// variables leave the current value in place.
func (s *Settings) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return fmt.Errorf("parsing environment variables: %w", err)
	}
	return nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Timeout returns HTTPTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.HTTPTimeout * float64(time.Second))
}

// FrameInterval returns the time between two scheduler ticks.
func (s *Settings) FrameInterval() time.Duration {
	if s.FrameRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(s.FrameRate)
}

// RetryDelay returns the backoff before retry number tries (zero-based).
func (s *Settings) RetryDelay(tries int) time.Duration {
	cooldown := s.DownloadRetryCooldown * math.Pow(s.DownloadRetryExponent, float64(tries))
	return time.Duration(cooldown * float64(time.Second))
}

// Containers converts RendererContainers to model containers, dropping names
// it does not recognise.
func (s *Settings) Containers() []model.Container {
	containers := make([]model.Container, 0, len(s.RendererContainers))
	for _, name := range s.RendererContainers {
		if c := model.ParseContainer("video/" + name); c != model.ContainerUnknown {
			containers = append(containers, c)
		}
	}
	return containers
}

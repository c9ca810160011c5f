// Package config provides configuration management for youtube-player.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment variable overrides (YTPLAYER_*)
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Videos/YouTube
//	// Captions in English when available
//	// Playback through mpv at up to 1080p
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment Overrides
//
// Every field can be overridden after the file is read:
//
//	YTPLAYER_DOWNLOADS_PATH=/tmp/videos
//	YTPLAYER_RENDERER_CONTAINERS=mp4,webm
//	YTPLAYER_LOG_LEVEL=debug
//
// # Saving Settings
//
//	settings.CaptionLanguage = "es"
//	err := settings.Save(config.DefaultPath())
package config

// Package logging builds the logrus loggers shared by every component.
//
// Each component logs through an entry carrying a "component" field, and
// each controller call adds an "op" field holding a fresh uuid:
//
//	logger := logging.New(settings.LogLevel, os.Stderr, logging.FormatText)
//	log := logging.Component(logger, "download")
//	logging.Operation(log).WithField("video_id", id).Info("Starting download")
//
// Interactive hosts install a Hook and drain it once per frame to mirror
// log lines on screen.
package logging

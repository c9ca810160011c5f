// Package captions fetches caption tracks and exports them as SubRip.
//
// Unlike playback and download, caption fetching returns its errors to the
// caller. A video without any caption track is not an error: Fetch returns
// a nil track.
package captions

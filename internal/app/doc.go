// Package app wires the remote client, scheduler and controllers that the
// terminal UI and the command line tool share.
//
// Playback, download and caption fetching remember the same last
// identifier, so downloading or fetching captions without an id acts on
// the video played last.
package app

// Package download saves videos to disk.
//
// # Controller
//
// The Controller runs one download at a time per call:
//
//  1. Pick the identifier (an empty one means the last video played)
//  2. Resolve metadata and streams concurrently
//  3. Select the best muxed stream
//  4. Derive a file name from the title and the stream's container
//  5. Stream the bytes into the file, reporting progress
//  6. Save the thumbnail beside it (optional)
//
// # Basic Usage
//
//	ctrl := download.NewController(client, lastID, settings, log)
//
//	path := ctrl.Download(ctx, download.Request{
//	    DestinationFolder: settings.DownloadsPath,
//	    ID:                "dQw4w9WgXcQ",
//	    Progress: func(fraction float64) {
//	        fmt.Printf("\r%3.0f%%", fraction*100)
//	    },
//	})
//	if path == "" {
//	    // failed; the reason was logged
//	}
//
// Download blocks, so scheduler-driven hosts run it through async.Go and
// poll the returned handle each frame.
//
// # Cancellation
//
// Cancelling ctx is observed before the file is created and after every
// copied block. The file is always closed, and removed if incomplete.
//
// # Retry Logic
//
// Thumbnail downloads are retried with exponential backoff, configurable via
// settings.DownloadMaxRetries and settings.DownloadRetryCooldown.
package download

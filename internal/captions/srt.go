package captions

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/handiism/youtube-player/internal/model"
)

// WriteSRT writes track in SubRip format.
//
//	1
//	00:00:01,500 --> 00:00:03,000
//	Hello world
//
// Cues are numbered from 1 in track order.
func WriteSRT(w io.Writer, track *model.CaptionTrack) error {
	bw := bufio.NewWriter(w)
	for i, cue := range track.Cues {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", i+1, srtTimestamp(cue.Offset), srtTimestamp(cue.End()), cue.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FileName returns the conventional file name of track's SubRip export next
// to a video named base, e.g. "Title.en.srt".
func FileName(base string, track *model.CaptionTrack) string {
	return fmt.Sprintf("%s.%s.srt", base, track.Descriptor.LanguageCode)
}

func srtTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}

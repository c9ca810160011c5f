// Package youtube resolves video metadata, streams and caption tracks from
// YouTube.
//
// Discovery is delegated to github.com/kkdai/youtube/v2; transfer of stream
// bytes and caption bodies uses the shared transport in internal/http.
//
// # Resolving
//
//	client := youtube.NewClient(httpclient.NewClient(), log)
//
//	id, err := client.ExtractID("https://youtu.be/dQw4w9WgXcQ")
//	streams, err := client.ResolveStreams(ctx, id)
//
// # Captions
//
// Caption bodies are timed-text XML. Both the legacy <transcript> format and
// the format="3" <timedtext> format are parsed into model cues:
//
//	descriptors, err := client.ResolveCaptionDescriptors(ctx, id)
//	track, err := client.FetchCaptionTrack(ctx, descriptors[0])
//
// # Errors
//
// Errors wrap the kinds defined in internal/model, so callers can use
// errors.Is(err, model.ErrNotFound) regardless of where resolution failed.
package youtube

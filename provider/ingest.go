package provider

import (
	"github.com/dustin/go-humanize"

	"vidgrab/vidgrab-backend/streams"
)

// NewStream is the single ingestion point for streams entering the system.
// The role tag is assigned here, once; nothing downstream re-derives it
// from the quality label.
func NewStream(id string, kind streams.Kind, quality, container, codec, sourceURL string, sizeBytes uint64) streams.Stream {
	return streams.Stream{
		ID:         id,
		Kind:       kind,
		Role:       streams.AssignRole(kind, quality),
		Quality:    quality,
		Container:  container,
		ApproxSize: humanize.Bytes(sizeBytes),
		Codec:      codec,
		SourceURL:  sourceURL,
	}
}

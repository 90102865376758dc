package downloader

import (
	"bytes"

	"github.com/bogem/id3v2"
	"github.com/pkg/errors"
)

// tagAudio prepends an ID3v2 tag with the video's title and uploader to
// an audio deliverable, so audio-only smart downloads arrive labeled the
// way a music player expects.
func tagAudio(data []byte, title, artist string) ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing id3 tag")
	}
	return append(buf.Bytes(), data...), nil
}

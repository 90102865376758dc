package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/pkg/errors"

	"vidgrab/vidgrab-backend/streams"
	"vidgrab/vidgrab-backend/utils"
)

// HLS resolves master playlist URLs into a stream list: muxed variants
// become progressive streams, variants referencing a separate audio group
// become video-only, and the audio renditions themselves become audio-only.
type HLS struct {
	Client *http.Client
}

func NewHLS(client *http.Client) *HLS {
	if client == nil {
		client = utils.HTTPClient
	}
	return &HLS{Client: client}
}

func (h *HLS) Resolve(ctx context.Context, rawURL string) (*streams.VideoMetadata, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Reason: err.Error()}
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{URL: rawURL}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &PrivateVideoError{URL: rawURL}
	case resp.StatusCode >= 400:
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	playlist, listType, err := m3u8.DecodeFrom(resp.Body, true)
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Reason: errors.Wrap(err, "decoding playlist").Error()}
	}
	if listType != m3u8.MASTER {
		return nil, &InvalidURLError{URL: rawURL, Reason: "not a master playlist"}
	}
	master := playlist.(*m3u8.MasterPlaylist)

	var list []streams.Stream
	seenAudio := make(map[string]bool)

	for i, variant := range master.Variants {
		if variant == nil || variant.Iframe {
			continue
		}

		label := variantLabel(variant)
		quality := label
		if variant.Audio != "" {
			// Audio lives in a separate rendition group, so this
			// variant carries video only.
			quality = label + " (video only)"
		}

		list = append(list, NewStream(
			fmt.Sprintf("variant_%d_%s", i, label),
			streams.KindVideo,
			quality,
			"ts",
			variant.Codecs,
			absoluteURI(base, variant.URI),
			uint64(variant.Bandwidth)/8,
		))

		for _, alt := range variant.Alternatives {
			if alt == nil || alt.Type != "AUDIO" || seenAudio[alt.GroupId+"/"+alt.Name] {
				continue
			}
			seenAudio[alt.GroupId+"/"+alt.Name] = true
			list = append(list, NewStream(
				"audio_"+alt.GroupId+"_"+alt.Name,
				streams.KindAudio,
				alt.Name+" (audio only)",
				"ts",
				"aac",
				absoluteURI(base, alt.URI),
				uint64(audioBitrate)*1000/8,
			))
		}
	}

	if len(list) == 0 {
		return nil, &NotFoundError{URL: rawURL}
	}

	title := strings.TrimSuffix(path.Base(base.Path), path.Ext(base.Path))
	return &streams.VideoMetadata{
		Title:   title,
		Streams: list,
	}, nil
}

// variantLabel turns RESOLUTION/FRAME-RATE attributes into a quality
// label like "1080p" or "720p60".
func variantLabel(v *m3u8.Variant) string {
	height := 0
	if parts := strings.SplitN(v.Resolution, "x", 2); len(parts) == 2 {
		height, _ = strconv.Atoi(parts[1])
	}
	if height == 0 {
		return "unknown"
	}
	label := fmt.Sprintf("%dp", height)
	if v.FrameRate >= 59 {
		label += "60"
	}
	return label
}

func absoluteURI(base *url.URL, uri string) string {
	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return base.ResolveReference(ref).String()
}

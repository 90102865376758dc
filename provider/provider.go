// Package provider resolves video URLs into metadata and role-tagged
// stream lists for the classifier.
package provider

import (
	"context"
	"fmt"
	"strings"

	"vidgrab/vidgrab-backend/streams"
)

// Provider turns a raw URL into video metadata, or fails with one of the
// typed errors below.
type Provider interface {
	Resolve(ctx context.Context, rawURL string) (*streams.VideoMetadata, error)
}

// InvalidURLError means the URL could not be understood at all.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid video URL %q: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("invalid video URL: %q", e.URL)
}

// NotFoundError means the URL parsed fine but no metadata resolves for it.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return "video not found or unavailable: " + e.URL
}

// PrivateVideoError means the video exists but is not accessible.
type PrivateVideoError struct {
	URL string
}

func (e *PrivateVideoError) Error() string {
	return "video is private: " + e.URL
}

// TransportError wraps a network failure reaching a provider.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach provider for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Dispatcher routes a URL to the provider that understands it: HLS master
// playlists go to the playlist provider, everything else to the catalog.
type Dispatcher struct {
	Catalog *Catalog
	HLS     *HLS
}

func NewDispatcher(catalog *Catalog, hls *HLS) *Dispatcher {
	return &Dispatcher{Catalog: catalog, HLS: hls}
}

func (d *Dispatcher) Resolve(ctx context.Context, rawURL string) (*streams.VideoMetadata, error) {
	if d.HLS != nil && strings.Contains(rawURL, ".m3u8") {
		return d.HLS.Resolve(ctx, rawURL)
	}
	return d.Catalog.Resolve(ctx, rawURL)
}

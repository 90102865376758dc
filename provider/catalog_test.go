package provider

import (
	"context"
	"errors"
	"testing"

	"vidgrab/vidgrab-backend/streams"
	"vidgrab/vidgrab-backend/utils"
)

func TestCatalogResolveKnownVideo(t *testing.T) {
	c := NewCatalog()

	md, err := c.Resolve(context.Background(), utils.WatchURL("dQw4w9WgXcQ"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if md.Title != "Never Gonna Give You Up" {
		t.Errorf("title = %q", md.Title)
	}
	if md.DurationSeconds != 212 {
		t.Errorf("duration = %d", md.DurationSeconds)
	}
	if len(md.Streams) != 6 {
		t.Fatalf("stream count = %d, expected the full ladder", len(md.Streams))
	}

	// Every stream arrives role-tagged with a unique id.
	seen := make(map[string]bool)
	for _, s := range md.Streams {
		if s.Role == streams.RoleUnknown {
			t.Errorf("stream %s has no role tag", s.ID)
		}
		if seen[s.ID] {
			t.Errorf("duplicate stream id %s", s.ID)
		}
		seen[s.ID] = true
		if s.ApproxSize == "" {
			t.Errorf("stream %s has no approximate size", s.ID)
		}
	}

	c2 := streams.Classify(md.Streams)
	if len(c2.Progressive) != 3 || len(c2.VideoOnly) != 1 || len(c2.AudioOnly) != 2 {
		t.Errorf("tier sizes = %d/%d/%d", len(c2.Progressive), len(c2.VideoOnly), len(c2.AudioOnly))
	}
}

func TestCatalogResolveShortLink(t *testing.T) {
	c := NewCatalog()

	md, err := c.Resolve(context.Background(), utils.ShortURL("jNQXAC9IVRw"))
	if err != nil {
		t.Fatalf("resolve short link: %v", err)
	}
	if md.Title != "Me at the zoo" {
		t.Errorf("title = %q", md.Title)
	}
}

func TestCatalogResolveErrors(t *testing.T) {
	c := NewCatalog()
	ctx := context.Background()

	var invalid *InvalidURLError
	for _, u := range []string{
		"not a url at all\x7f",
		"ftp://youtube.com/watch?v=abc",
		"https://example.com/video",
		"https://www.youtube.com/watch",
		"https://youtu.be/",
	} {
		if _, err := c.Resolve(ctx, u); !errors.As(err, &invalid) {
			t.Errorf("Resolve(%q) error = %v, expected InvalidURLError", u, err)
		}
	}

	var notFound *NotFoundError
	if _, err := c.Resolve(ctx, utils.WatchURL("n0SuchVide0")); !errors.As(err, &notFound) {
		t.Errorf("unknown id error = %v, expected NotFoundError", err)
	}

	var private *PrivateVideoError
	if _, err := c.Resolve(ctx, utils.WatchURL("pRiv4teVid0")); !errors.As(err, &private) {
		t.Errorf("private id error = %v, expected PrivateVideoError", err)
	}
}

func TestCatalogResolveCancelledContext(t *testing.T) {
	c := NewCatalog()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Resolve(ctx, utils.WatchURL("dQw4w9WgXcQ")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}

func TestCatalogRegister(t *testing.T) {
	c := NewCatalog()
	c.Register("newVid12345", videoEntry{Title: "Fresh Upload", DurationSeconds: 45, Uploader: "someone"})

	md, err := c.Resolve(context.Background(), utils.WatchURL("newVid12345"))
	if err != nil {
		t.Fatalf("resolve registered video: %v", err)
	}
	if md.Title != "Fresh Upload" {
		t.Errorf("title = %q", md.Title)
	}
}

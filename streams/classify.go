package streams

import (
	"sort"
	"strconv"
	"strings"
)

// NoSuitableStreamError means no progressive stream exists to recommend.
// The caller is expected to fall back to the video-only and audio-only
// tiers for manual combination.
type NoSuitableStreamError struct{}

func (e *NoSuitableStreamError) Error() string {
	return "no suitable progressive stream available"
}

// Classification partitions a stream list into the three usable tiers.
// Every input stream lands in exactly one bucket.
type Classification struct {
	Progressive []Stream
	VideoOnly   []Stream
	AudioOnly   []Stream
}

// AssignRole derives the role tag for a freshly ingested stream. This is
// the only place a display label is ever inspected; providers call it once
// and everything downstream trusts Stream.Role.
func AssignRole(kind Kind, quality string) Role {
	switch {
	case strings.Contains(quality, "video only"):
		return RoleVideoOnly
	case kind == KindAudio || strings.Contains(quality, "audio only"):
		return RoleAudioOnly
	default:
		return RoleProgressive
	}
}

// Classify buckets streams by their role tag. Streams that somehow
// arrive untagged get the ingestion rule applied as a fallback.
func Classify(list []Stream) Classification {
	var c Classification
	for _, s := range list {
		role := s.Role
		if role == RoleUnknown {
			role = AssignRole(s.Kind, s.Quality)
		}
		switch role {
		case RoleVideoOnly:
			c.VideoOnly = append(c.VideoOnly, s)
		case RoleAudioOnly:
			c.AudioOnly = append(c.AudioOnly, s)
		default:
			c.Progressive = append(c.Progressive, s)
		}
	}
	return c
}

// qualityRank is the explicit quality ordering, best first. Labels not
// listed here sort after every ranked label, lexically among themselves.
var qualityRank = map[string]int{
	"1080p":  0,
	"720p60": 1,
	"720p":   2,
	"480p":   3,
	"360p60": 4,
	"360p":   5,
}

// Recommend picks the highest-ranked progressive stream. Ties are broken
// by the smaller approximate size.
func Recommend(list []Stream) (Stream, error) {
	prog := Classify(list).Progressive
	if len(prog) == 0 {
		return Stream{}, &NoSuitableStreamError{}
	}
	best := prog[0]
	for _, s := range prog[1:] {
		if qualityLess(s, best) {
			best = s
		}
	}
	return best, nil
}

// BestVideo returns the highest-ranked stream of a list under the same
// ordering Recommend uses. Used to pick the video half of a merge pair.
func BestVideo(list []Stream) (Stream, bool) {
	if len(list) == 0 {
		return Stream{}, false
	}
	best := list[0]
	for _, s := range list[1:] {
		if qualityLess(s, best) {
			best = s
		}
	}
	return best, true
}

// BestAudio returns the audio stream with the highest numeric bitrate
// label ("128kbps" style), ties broken by smaller size.
func BestAudio(list []Stream) (Stream, bool) {
	if len(list) == 0 {
		return Stream{}, false
	}
	best := list[0]
	for _, s := range list[1:] {
		bs, bb := leadingNumber(s.Quality), leadingNumber(best.Quality)
		if bs > bb || (bs == bb && leadingNumber(s.ApproxSize) < leadingNumber(best.ApproxSize)) {
			best = s
		}
	}
	return best, true
}

// SortByQuality orders a slice best-first, in place. Handy for
// presentation layers listing a tier.
func SortByQuality(list []Stream) {
	sort.SliceStable(list, func(i, j int) bool {
		return qualityLess(list[i], list[j])
	})
}

// qualityLess reports whether a outranks b.
func qualityLess(a, b Stream) bool {
	ra, oka := qualityRank[labelKey(a.Quality)]
	rb, okb := qualityRank[labelKey(b.Quality)]

	switch {
	case oka && okb:
		if ra != rb {
			return ra < rb
		}
	case oka != okb:
		// Ranked labels sort before unranked ones.
		return oka
	default:
		if a.Quality != b.Quality {
			return a.Quality < b.Quality
		}
	}

	// Same label: the smaller approximate size wins.
	return leadingNumber(a.ApproxSize) < leadingNumber(b.ApproxSize)
}

// labelKey trims decorations like "720p (with audio)" down to the bare
// label the rank table knows about.
func labelKey(quality string) string {
	if i := strings.IndexByte(quality, ' '); i > 0 {
		return quality[:i]
	}
	return quality
}

// leadingNumber parses the number at the front of a label or size string,
// ignoring whatever unit follows ("25.4 MB" -> 25.4, "128kbps" -> 128).
func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return n
}

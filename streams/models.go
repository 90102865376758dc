package streams

// Kind is what a stream physically carries on the wire.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Role is the classification tag a stream receives once, when it is
// ingested from a metadata provider. Downstream code switches on the
// role and never re-parses quality labels.
type Role string

const (
	RoleUnknown     Role = ""
	RoleProgressive Role = "progressive" // single stream with both video and audio
	RoleVideoOnly   Role = "video-only"
	RoleAudioOnly   Role = "audio-only"
)

// Stream is one encoding of a video, immutable once produced.
type Stream struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"type"`
	Role       Role   `json:"role"`
	Quality    string `json:"quality"`
	Container  string `json:"format"`
	ApproxSize string `json:"filesize"`
	Codec      string `json:"codec"`
	SourceURL  string `json:"url"`
}

// VideoMetadata is one resolved URL's worth of information. Read-only
// to the core; superseded wholesale when new metadata is fetched.
type VideoMetadata struct {
	Title           string   `json:"title"`
	DurationSeconds int      `json:"duration"`
	ThumbnailURL    string   `json:"thumbnail"`
	Uploader        string   `json:"uploader"`
	ViewCount       int64    `json:"view_count"`
	Streams         []Stream `json:"streams"`
}

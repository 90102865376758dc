package utils

// WatchURL builds the canonical watch URL for a catalog video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ShortURL builds the youtu.be form of a watch URL.
func ShortURL(videoID string) string {
	return "https://youtu.be/" + videoID
}

package ports

// RateLimiter provides per-client sliding-window admission control.
// Implementations MUST be safe for concurrent use.
type RateLimiter interface {
	// Allow records and admits one request for key, or rejects without
	// recording when the window is full.
	Allow(key string) bool
	// RetryAfter reports the seconds until the oldest request for key leaves
	// the window (0 when the key has no recorded requests).
	RetryAfter(key string) int
}

package model

import "time"

// Artifact is the media file produced by the downloader. Its content is never
// inspected, only its path and size.
type Artifact struct {
	Path       string
	Format     Format
	Size       int64 // bytes, 0 if the file could not be stat'ed
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed returns the dispatch duration, or zero if the run did not finish.
func (a Artifact) Elapsed() time.Duration {
	if a.StartedAt.IsZero() || a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}

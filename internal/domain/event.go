package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactEvent announces a newly generated map artifact.
type ArtifactEvent struct {
	ID          string        `json:"id"`
	Mode        Mode          `json:"mode"`
	Variable    Variable      `json:"variable"`
	Date        DateID        `json:"date"`
	Path        string        `json:"path"`
	Source      string        `json:"source"`
	Retained    int           `json:"retained_features"`
	Dropped     int           `json:"dropped_features"`
	Bytes       int           `json:"bytes"`
	Duration    time.Duration `json:"duration_ns"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// NewArtifactEvent stamps a new event for sel with a random ID and the
// current package clock time.
func NewArtifactEvent(sel Selection, path, source string) ArtifactEvent {
	return ArtifactEvent{
		ID:          uuid.NewString(),
		Mode:        sel.Mode,
		Variable:    sel.Variable,
		Date:        sel.Date,
		Path:        path,
		Source:      source,
		GeneratedAt: Now(),
	}
}

package model

import "time"

// Category represents a product category from the catalogue.
type Category struct {
	CreatedAt   time.Time
	Name        string
	Description string
	ID          int
	IsActive    bool
}

// ImportRun summarizes a finished import session for history purposes.
// The session's working records themselves are never persisted.
type ImportRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Source     string
	ID         string
	Total      int
	Processed  int
	Errored    int
	Sum        float64
}

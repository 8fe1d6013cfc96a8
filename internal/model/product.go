// Package model defines the core domain models used throughout the application.
package model

import "github.com/google/uuid"

// Status tracks where a product record is in the categorization lifecycle.
type Status string

// Product status constants.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusError      Status = "error"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusProcessed, StatusError:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal lifecycle step.
// The only legal path is pending -> processing -> processed|error.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusProcessed || next == StatusError
	default:
		// processed and error are terminal
		return false
	}
}

// Suggestion is a validated category suggestion for a product description.
type Suggestion struct {
	Category   string
	Confidence float64
}

// Product represents a single draft product in an import session.
// Category is the field of record; AICategory and AIConfidence are advisory
// and only set once the record reaches StatusProcessed.
type Product struct {
	ID           string
	Description  string
	Category     string
	AICategory   string
	Status       Status
	Price        float64
	AIConfidence float64
	Err          string
}

// NewDraft creates a pending product record with a fresh session-unique id.
func NewDraft(description string, price float64) Product {
	return Product{
		ID:          uuid.NewString(),
		Description: description,
		Price:       price,
		Status:      StatusPending,
	}
}

// Totals holds the derived aggregates over an import session's records.
type Totals struct {
	Count int
	Sum   float64
}

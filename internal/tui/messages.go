package tui

import "github.com/orderflow/orderflow/internal/engine"

// recordEventMsg carries one record's status change from the session.
type recordEventMsg engine.Event

// runFinishedMsg signals that every record has settled.
type runFinishedMsg struct{}

// exportedMsg reports the outcome of an export triggered from the table.
type exportedMsg struct {
	err  error
	path string
}

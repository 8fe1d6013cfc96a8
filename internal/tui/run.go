package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orderflow/orderflow/internal/engine"
)

// Run drives an import session under the interactive table. The session's
// suggestion fan-out starts in the background and the table stays live for
// edits, deletes and exports until the user quits.
func Run(ctx context.Context, session *engine.Session, outputDir string) error {
	go func() {
		// Per-record failures land on the records; Run only fails on
		// misconfiguration, which the preflight in cmd already catches.
		_ = session.Run(ctx)
	}()

	p := tea.NewProgram(NewModel(session, outputDir), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run import table: %w", err)
	}

	return nil
}

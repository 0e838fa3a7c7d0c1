package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const flushTimeout = 5 * time.Second

// Run starts the board on the alternate screen and blocks until the user
// quits. Pending writes are flushed before it returns.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := opts.Repo.Flush(ctx); err != nil {
		return fmt.Errorf("flush collection: %w", err)
	}
	return runErr
}

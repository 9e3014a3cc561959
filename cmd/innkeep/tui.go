package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/innkeep/innkeep/internal/tui"
)

func (a *app) runTUI(ctx context.Context) error {
	if !a.store.Authenticated() {
		printWelcome(a.out)
	}

	p := tea.NewProgram(tui.NewApp(a.svc, version),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.in),
		tea.WithOutput(a.out),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

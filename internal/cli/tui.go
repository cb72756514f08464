package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/update"
)

// runTUI runs the interactive UI with the reminder loop in the background.
// Logs go to the configured log file only.
func runTUI(ctx context.Context, flags *globalFlags) error {
	a, err := openApp(ctx, flags, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	loop := a.newLoop()
	loop.Start()
	defer loop.Stop()

	m := update.NewModel(a.store,
		update.WithTheme(a.theme()),
		update.WithReminders(loop.C()),
		update.WithContext(ctx),
	)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tasklist ui: %w", err)
	}
	return nil
}

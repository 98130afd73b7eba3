package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/feather/internal/scheduler"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

// runTUI runs the calendar until the user quits. Subscriptions and the
// midnight rollover feed the program through SharedState.Send.
func runTUI(ctx context.Context, app *App) error {
	state := &SharedState{App: app, Today: app.Today()}
	p := tea.NewProgram(newAppModel(state),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	state.Send = p.Send

	opts := []scheduler.Option{}
	if app.Now != nil {
		opts = append(opts, scheduler.WithClock(app.Now))
	}
	if app.Logger != nil {
		opts = append(opts, scheduler.WithLogger(app.Logger))
	}
	rollover := scheduler.NewRollover(app.Location, func(today string) {
		p.Send(dayChangedMsg{today: today})
	}, opts...)
	if err := rollover.Start(); err != nil {
		return err
	}
	defer rollover.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

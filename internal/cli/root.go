package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/clients/caldav"
	"github.com/alexanderramin/feather/internal/export"
	"github.com/alexanderramin/feather/internal/service"
	"github.com/spf13/cobra"
)

// Pusher uploads exported plans to a remote calendar.
type Pusher interface {
	IsConfigured() bool
	Push(ctx context.Context, entries []export.Entry) (caldav.PushResult, error)
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Calendar service.CalendarService
	Notes    service.NotesService
	CalDAV   Pusher

	WeekStart time.Weekday
	Weeks     int
	Location  *time.Location
	Logger    *slog.Logger

	Now           func() time.Time
	IsInteractive func() bool
}

// Today returns the current date in the configured location.
func (a *App) Today() string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	return calendar.Today(now(), loc)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) weeks() int {
	if a.Weeks <= 0 {
		return 5
	}
	return a.Weeks
}

// windowStart returns the first date of the week containing dateStr.
func (a *App) windowStart(dateStr string) string {
	day, err := calendar.ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return calendar.FormatDate(calendar.WeekStart(day, a.WeekStart))
}

// NewRootCmd creates the top-level "feather" command and registers all
// subcommands against the provided App. Without a subcommand an
// interactive terminal opens the TUI.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "feather",
		Short:         "Calendar planner and pinboard notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newPlanCmd(app),
		newLabelCmd(app),
		newStyleCmd(app),
		newNotesCmd(app),
		newExportCmd(app),
		newTUICmd(app),
	)

	return root
}

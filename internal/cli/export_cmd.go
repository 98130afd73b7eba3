package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export plans as iCalendar events",
	}
	cmd.AddCommand(
		newExportICSCmd(app),
		newExportCalDAVCmd(app),
	)
	return cmd
}

// exportEntries collects the plans of weeks starting at the week of from.
func exportEntries(ctx context.Context, app *App, from string, weeks int) ([]export.Entry, error) {
	if from == "" {
		from = app.Today()
	}
	if weeks <= 0 {
		weeks = app.weeks()
	}
	dates := calendar.NewDates(app.windowStart(from), weeks)
	r := calendar.RenderRange(dates)

	plans, err := app.Calendar.Plans(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	labels, err := app.Calendar.Labels(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	styles, err := fetchStyles(ctx, app.Calendar)
	if err != nil {
		return nil, err
	}
	return export.Entries(plans, styles, labels), nil
}

func newExportICSCmd(app *App) *cobra.Command {
	var from, output string
	var weeks int

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write plans as an .ics calendar",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			entries, err := exportEntries(cmd.Context(), app, from, weeks)
			if err != nil {
				return err
			}
			cal, err := export.Calendar(entries, time.Now())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, cerr := os.Create(output)
				if cerr != nil {
					return fmt.Errorf("creating %s: %w", output, cerr)
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				w = f
			}
			if err := export.Write(w, cal); err != nil {
				return err
			}
			if w != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d plans to %s\n", len(entries), output)
			}
			return nil
		},
	}

	dateVar(cmd.Flags(), &from, "from", "A date in the first exported week (default today)", app.Today)
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks (default: the configured window)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func newExportCalDAVCmd(app *App) *cobra.Command {
	var from string
	var weeks int

	cmd := &cobra.Command{
		Use:   "caldav",
		Short: "Push plans to the configured CalDAV calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.CalDAV == nil || !app.CalDAV.IsConfigured() {
				return errors.New("caldav is not configured (set caldav.url, caldav.username and caldav.password)")
			}
			entries, err := exportEntries(cmd.Context(), app, from, weeks)
			if err != nil {
				return err
			}
			res, err := app.CalDAV.Push(cmd.Context(), entries)
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d plans", res.Written)
			if res.Failed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d failed", res.Failed)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}

	dateVar(cmd.Flags(), &from, "from", "A date in the first pushed week (default today)", app.Today)
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks (default: the configured window)")

	return cmd
}

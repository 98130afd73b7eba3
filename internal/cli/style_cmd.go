package cli

import (
	"fmt"

	"github.com/alexanderramin/feather/internal/cli/formatter"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/spf13/cobra"
)

func newStyleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Manage plan styles",
	}
	cmd.AddCommand(
		newStyleSetCmd(app),
		newStyleListCmd(app),
	)
	return cmd
}

func newStyleSetCmd(app *App) *cobra.Command {
	var label, color, colorDone string

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Create or replace a plan style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := domain.PlanStyle{ID: args[0], Label: label, Color: color, ColorDone: colorDone}
			if err := app.Calendar.SetStyle(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved style %s\n", formatter.StyleSwatch(s))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Display label")
	cmd.Flags().StringVar(&color, "color", "", "Color, e.g. #83a598")
	cmd.Flags().StringVar(&colorDone, "color-done", "", "Color of finished plans")

	return cmd
}

func newStyleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List plan styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			styles, err := app.Calendar.Styles(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStyles(styles))
			return nil
		},
	}
}

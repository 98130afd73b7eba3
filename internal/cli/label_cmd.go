package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLabelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage date labels",
	}
	cmd.AddCommand(newLabelSetCmd(app))
	return cmd
}

func newLabelSetCmd(app *App) *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "set <date> [content...]",
		Short: "Set or clear the label of a date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0], app.Today())
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			if unset {
				content = ""
			} else {
				if content == "" && app.interactive() {
					if err := promptText("Label for "+date, "", &content); err != nil {
						return err
					}
				}
				if strings.TrimSpace(content) == "" {
					return errors.New("label content is required (use --clear to remove the label)")
				}
			}

			if err := app.Calendar.SetLabel(cmd.Context(), date, content); err != nil {
				return err
			}
			if content == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared label of %s\n", date)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Labelled %s %q\n", date, content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unset, "clear", false, "Remove the label")

	return cmd
}

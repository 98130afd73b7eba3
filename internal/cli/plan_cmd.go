package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/feather/internal/calendar"
	"github.com/alexanderramin/feather/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage calendar plans",
	}

	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanEditCmd(app),
		newPlanRemoveCmd(app),
		newPlanMoveCmd(app),
		newPlanListCmd(app),
	)

	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var date, style string

	cmd := &cobra.Command{
		Use:   "add [content...]",
		Short: "Add a plan at the end of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if content == "" && app.interactive() {
				if err := promptText("Plan", "what to do", &content); err != nil {
					return err
				}
			}
			if strings.TrimSpace(content) == "" {
				return errors.New("plan content is required")
			}
			if date == "" {
				date = app.Today()
			}

			p, err := app.Calendar.Add(cmd.Context(), date, content, style)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added plan %s on %s (%s)\n", p.ID, p.DateStr, formatter.RelativeDay(p.DateStr, app.Today()))
			return nil
		},
	}

	dateVar(cmd.Flags(), &date, "date", "Date of the plan (default today)", app.Today)
	cmd.Flags().StringVar(&style, "style", "", "Plan style id")

	return cmd
}

func newPlanEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <content...>",
		Short: "Change the content of a plan",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args[1:], " ")
			if err := app.Calendar.Edit(cmd.Context(), args[0], content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated plan %s\n", args[0])
			return nil
		},
	}
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Calendar.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return nil
		},
	}
}

func newPlanMoveCmd(app *App) *cobra.Command {
	var date, after string
	var position int

	cmd := &cobra.Command{
		Use:   "mv <id>",
		Short: "Move a plan to another position or date",
		Long: "Move a plan. Without --after or --position the plan goes to the end\n" +
			"of the target date; --position is 1-based.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			p, err := app.Calendar.Plan(ctx, id)
			if err != nil {
				return err
			}
			if date == "" {
				date = p.DateStr
			}

			st, err := stateForDates(ctx, app.Calendar, p.DateStr, date)
			if err != nil {
				return err
			}
			origin, ok := calendar.NewDragOrigin(st, id)
			if !ok {
				return fmt.Errorf("plan %s is not in the list of %s", id, p.DateStr)
			}

			var target calendar.DropTarget
			switch {
			case after != "":
				di := st.DateIndex(date)
				if st.Dates[di].IndexOf(after) < 0 {
					return fmt.Errorf("plan %s is not on %s", after, date)
				}
				target = calendar.TargetAfter(st, id, date, after)
			case position > 0:
				target = calendar.DropTarget{DateStr: date, Slot: position - 1}
			default:
				target = calendar.DropTarget{DateStr: date, Slot: len(st.Dates[st.DateIndex(date)].Plans)}
			}

			m, err := calendar.ResolveDrop(st, origin, target)
			if err != nil {
				return err
			}
			if m.IsNoop() {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Plan is already there."))
				return nil
			}
			if err := app.Calendar.Move(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved plan %s to %s\n", id, m.ToDate)
			return nil
		},
	}

	dateVar(cmd.Flags(), &date, "date", "Target date (default: the plan's date)", app.Today)
	cmd.Flags().StringVar(&after, "after", "", "Place right after this plan id")
	cmd.Flags().IntVar(&position, "position", 0, "1-based position on the target date")
	cmd.MarkFlagsMutuallyExclusive("after", "position")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var from string
	var weeks int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List plans week by week",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if from == "" {
				from = app.Today()
			}
			if weeks <= 0 {
				weeks = 1
			}
			st, err := loadWindow(ctx, app.Calendar, app.windowStart(from), weeks)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlans(st.Dates, st.Styles, app.Today()))
			return nil
		},
	}

	dateVar(cmd.Flags(), &from, "from", "A date in the first week to list (default today)", app.Today)
	cmd.Flags().IntVar(&weeks, "weeks", 1, "Number of weeks to list")

	return cmd
}

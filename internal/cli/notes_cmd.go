package cli

import (
	"fmt"
	"path"
	"strings"

	"github.com/alexanderramin/feather/internal/cli/formatter"
	"github.com/alexanderramin/feather/internal/domain"
	"github.com/spf13/cobra"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage directories, pinboards and pins",
	}

	cmd.AddCommand(
		newNotesListCmd(app),
		newNotesAddCmd(app, domain.InodePinboard),
		newNotesAddCmd(app, domain.InodeDir),
		newNotesRenameCmd(app),
		newNotesPinsCmd(app),
		newNotesPinCmd(app),
		newNotesMovePinCmd(app),
		newNotesRemovePinCmd(app),
	)

	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"tree"},
		Short:   "Show the notes tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd.Context(), app.Notes)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(tree))
			return nil
		},
	}
}

func newNotesAddCmd(app *App, kind domain.InodeType) *cobra.Command {
	var parent string

	use, short := "add-board <name...>", "Create a pinboard"
	if kind == domain.InodeDir {
		use, short = "add-dir <name...>", "Create a directory"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parentPath := ""
			if parent != "" {
				tree, err := loadTree(ctx, app.Notes)
				if err != nil {
					return err
				}
				dir, err := resolveKind(tree, parent, domain.InodeDir)
				if err != nil {
					return err
				}
				parentPath = dir.Path
			}

			name := strings.Join(args, " ")
			var (
				n   domain.Inode
				err error
			)
			if kind == domain.InodeDir {
				n, err = app.Notes.AddDirectory(ctx, parentPath, name)
			} else {
				n, err = app.Notes.AddPinboard(ctx, parentPath, name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", n.Type, n.Name, path.Base(n.Path))
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent directory (name or id; default home)")

	return cmd
}

func newNotesRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <entry> <name...>",
		Short: "Rename a directory or pinboard",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tree, err := loadTree(ctx, app.Notes)
			if err != nil {
				return err
			}
			n, err := resolveInode(tree, args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if err := app.Notes.Rename(ctx, n.Path, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", n.Name, name)
			return nil
		},
	}
}

func newNotesPinsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pins <board>",
		Short: "List the pins of a pinboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd.Context(), app.Notes)
			if err != nil {
				return err
			}
			board, err := resolveKind(tree, args[0], domain.InodePinboard)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPins(board))
			return nil
		},
	}
}

func newNotesPinCmd(app *App) *cobra.Command {
	var x, y int

	cmd := &cobra.Command{
		Use:   "pin <board> [content...]",
		Short: "Pin a note on a pinboard",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tree, err := loadTree(ctx, app.Notes)
			if err != nil {
				return err
			}
			board, err := resolveKind(tree, args[0], domain.InodePinboard)
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			if content == "" && app.interactive() {
				if err := promptText("Pin on "+board.Name, "", &content); err != nil {
					return err
				}
			}
			pin, err := app.Notes.AddPin(ctx, board.Path, content, x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s on %s\n", pin.ID, board.Name)
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "Column on the board")
	cmd.Flags().IntVar(&y, "y", 0, "Row on the board")

	return cmd
}

func newNotesMovePinCmd(app *App) *cobra.Command {
	var x, y int

	cmd := &cobra.Command{
		Use:   "mv-pin <board> <pin-id>",
		Short: "Move a pin on its board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tree, err := loadTree(ctx, app.Notes)
			if err != nil {
				return err
			}
			board, err := resolveKind(tree, args[0], domain.InodePinboard)
			if err != nil {
				return err
			}
			if err := app.Notes.MovePin(ctx, board.Path, args[1], x, y); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved pin %s to %d,%d\n", args[1], x, y)
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "Column on the board")
	cmd.Flags().IntVar(&y, "y", 0, "Row on the board")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func newNotesRemovePinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-pin <board> <pin-id>",
		Short: "Remove a pin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tree, err := loadTree(ctx, app.Notes)
			if err != nil {
				return err
			}
			board, err := resolveKind(tree, args[0], domain.InodePinboard)
			if err != nil {
				return err
			}
			if err := app.Notes.RemovePin(ctx, board.Path, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed pin %s\n", args[1])
			return nil
		},
	}
}

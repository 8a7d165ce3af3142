package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoclient/internal/backend"
	"github.com/idilsaglam/todoclient/internal/logging"
	"github.com/idilsaglam/todoclient/internal/model"
	"github.com/idilsaglam/todoclient/internal/router"
	"github.com/idilsaglam/todoclient/internal/tui"
	"github.com/idilsaglam/todoclient/internal/ui"
)

func (a *app) listCmd() *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			router.New(a.store).Navigate(router.PathOf(model.ParseFilter(filter)))

			a.store.FetchTodos(cmd.Context())
			if err := a.storeError(); err != nil {
				return err
			}

			snap := a.store.Snapshot()
			a.printer.List(ui.ListView{
				Todos:        a.store.VisibleTodos(),
				Filter:       snap.Filter,
				EmptyMessage: snap.EmptyMessage,
				Completed:    a.store.CompletedCount(),
				Total:        len(snap.Todos),
				Group:        group,
			})
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Which todos to show: all, completed or incomplete")
	cmd.Flags().BoolVarP(&group, "group", "g", false, "Group output by pending/done")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <detail...>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.UpdateTargetTodo("title", strings.TrimSpace(args[0])); err != nil {
				return failed(err)
			}
			if err := a.store.UpdateTargetTodo("detail", strings.TrimSpace(strings.Join(args[1:], " "))); err != nil {
				return failed(err)
			}

			a.store.CreateTodo(cmd.Context())
			if err := a.storeError(); err != nil {
				return err
			}
			a.printer.OK(fmt.Sprintf("added #%d", a.store.Todos()[0].ID))
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle the completed flag of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			todo, err := a.lookup(cmd.Context(), id)
			if err != nil {
				return err
			}

			a.store.ToggleCompleted(cmd.Context(), todo)
			if err := a.storeError(); err != nil {
				return err
			}
			if todo.Completed {
				a.printer.OK(fmt.Sprintf("reopened #%d", id))
			} else {
				a.printer.OK(fmt.Sprintf("completed #%d", id))
			}
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	var title, detail string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or detail of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("detail") {
				return fmt.Errorf("edit: pass --title, --detail or both")
			}
			todo, err := a.lookup(cmd.Context(), id)
			if err != nil {
				return err
			}

			a.store.ShowEditor(todo)
			if flags.Changed("title") {
				if err := a.store.UpdateTargetTodo("title", title); err != nil {
					return failed(err)
				}
			}
			if flags.Changed("detail") {
				if err := a.store.UpdateTargetTodo("detail", detail); err != nil {
					return failed(err)
				}
			}
			draft := a.store.TargetTodo()
			unchanged := draft.Title == todo.Title && draft.Detail == todo.Detail
			if err := a.store.SubmitEdit(cmd.Context()); err != nil {
				return failed(err)
			}
			if err := a.storeError(); err != nil {
				return err
			}
			if unchanged {
				a.printer.Println(fmt.Sprintf("nothing to change for #%d", id))
				return nil
			}
			a.printer.OK(fmt.Sprintf("updated #%d", id))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&detail, "detail", "d", "", "New detail")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !a.store.DeleteTodo(cmd.Context(), id) {
				return a.storeError()
			}
			a.printer.OK(fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Run(cmd.Context(), a.store); err != nil {
				return failed(err)
			}
			return nil
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var addr, data string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local development backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("data") {
				data = a.cfg.Server.DataFile
			}

			repo := backend.NewRepository()
			if data != "" {
				var err error
				if repo, err = backend.OpenRepository(data); err != nil {
					return failed(err)
				}
			}
			srv := backend.NewServer(repo, logging.NewLogger("backend"))

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(addr) }()

			select {
			case err := <-errCh:
				if err != nil {
					return failed(err)
				}
				return nil
			case <-cmd.Context().Done():
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					return failed(err)
				}
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :3000)")
	cmd.Flags().StringVar(&data, "data", "", "JSON file to persist todos in; empty keeps them in memory")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Needs no configuration, so a broken config file cannot fail it.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s\n", Version)
		},
	}
}

// lookup refreshes the collection and returns the todo with id.
func (a *app) lookup(ctx context.Context, id int) (model.Todo, error) {
	a.store.FetchTodos(ctx)
	if err := a.storeError(); err != nil {
		return model.Todo{}, err
	}
	for _, t := range a.store.Todos() {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Todo{}, failed(fmt.Errorf("todo with ID %d not found", id))
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("not a valid todo id: %q", s)
	}
	return id, nil
}

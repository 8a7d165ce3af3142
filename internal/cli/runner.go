// Package cli is the command-line surface. Every command goes through the
// same state.Store the TUI uses.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoclient/internal/api"
	"github.com/idilsaglam/todoclient/internal/config"
	"github.com/idilsaglam/todoclient/internal/logging"
	"github.com/idilsaglam/todoclient/internal/state"
	"github.com/idilsaglam/todoclient/internal/ui"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// exitError carries an exit code. A nil err means the message was already
// printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func failed(err error) error { return &exitError{code: ExitFailure, err: err} }

type app struct {
	out, errOut io.Writer
	configPath  string

	cfg     *config.Config
	printer *ui.Printer
	store   *state.Store
}

// Execute runs the command line in args and returns the process exit code:
// 0 ok, 1 runtime or server error, 2 usage error.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	defer logging.Close()

	a := &app{out: out, errOut: errOut}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	p := a.printer
	if p == nil {
		p = ui.NewPrinter(out, errOut, "classic", true)
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			p.Fail(ee.err.Error())
		}
		return ee.code
	}
	p.Fail(err.Error())
	fmt.Fprintln(errOut, "Run 'todo --help' for usage.")
	return ExitUsage
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "A client for a to-do REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return &exitError{code: ExitUsage}
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (.yml, .yaml or .toml)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.doneCmd(),
		a.editCmd(),
		a.removeCmd(),
		a.tuiCmd(),
		a.serveCmd(),
		a.versionCmd(),
	)
	return root
}

// setup resolves the configuration and wires logging, output and the store.
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return failed(err)
	}
	cfg.ApplyEnv()
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return failed(err)
	}
	if err := cfg.Validate(); err != nil {
		return failed(err)
	}
	if err := logging.Configure(cfg.Log); err != nil {
		return failed(err)
	}

	a.cfg = cfg
	a.printer = ui.NewPrinter(a.out, a.errOut, cfg.Theme, cfg.NoColor)

	client := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(logging.NewLogger("api")),
	)
	a.store = state.New(client, state.WithLogger(logging.NewLogger("store")))
	logging.NewLogger("cli").WithField("command", cmd.Name()).Debug("Starting")
	return nil
}

// storeError turns a message left by the last action into an exit error.
func (a *app) storeError() error {
	if msg := a.store.ErrorMessage(); msg != "" {
		return failed(errors.New(msg))
	}
	return nil
}

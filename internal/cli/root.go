// Package cli implements the backdesk command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app carries the flag values of one command tree.
type app struct {
	flags rootFlags
}

// NewRootCmd creates the top-level "backdesk" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "backdesk",
		Short: "Browse and edit back-office records over a REST backend",
		Long: "backdesk keeps a local view of each backend resource (customers, products,\n" +
			"invoices and the rest) and lets you search, page, create, update and delete\n" +
			"records from the terminal.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory for the token and snapshot cache (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newLoginCmd())
	root.AddCommand(a.newLogoutCmd())
	root.AddCommand(a.newResourcesCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newGetCmd())
	root.AddCommand(a.newCreateCmd())
	root.AddCommand(a.newUpdateCmd())
	root.AddCommand(a.newDeleteCmd())
	root.AddCommand(a.newDashboardCmd())
	root.AddCommand(a.newExportCmd())
	root.AddCommand(a.newImportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return
	}
	report(os.Stderr, err)
	os.Exit(ExitCode(err))
}

// exitErr attaches an exit code to an error. Silent errors were already
// shown to the user as a notification.
type exitErr struct {
	code   int
	err    error
	silent bool
}

func (e *exitErr) Error() string { return e.err.Error() }

func (e *exitErr) Unwrap() error { return e.err }

// userError marks err as the caller's fault (exit 1).
func userError(err error) error {
	return &exitErr{code: exitUserError, err: err}
}

// sysError marks err as an environment or backend failure (exit 2).
func sysError(err error) error {
	return &exitErr{code: exitSysError, err: err}
}

// reported wraps an error whose message the notification center has
// already printed.
func reported(err error) error {
	return &exitErr{code: classify(err), err: err, silent: true}
}

// ExitCode maps an error returned by the command tree to a process exit
// code.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return classify(err)
}

// classify treats unreachable backends and 5xx responses as system errors
// and everything else as user errors.
func classify(err error) int {
	var te *types.TransportError
	if errors.As(err, &te) {
		return exitSysError
	}
	var se *types.ServerError
	if errors.As(err, &se) && se.Status >= 500 {
		return exitSysError
	}
	return exitUserError
}

// report prints err unless it was already shown.
func report(w io.Writer, err error) {
	var ee *exitErr
	if errors.As(err, &ee) && ee.silent {
		return
	}
	fmt.Fprintln(w, "backdesk:", types.UserMessage(err))
}

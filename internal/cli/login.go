package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/backdesk/internal/auth"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

func (a *app) newLoginCmd() *cobra.Command {
	var (
		identity, password string
		refresh            bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		Long: "Send the credentials to the backend login endpoint and save the returned\n" +
			"token for later commands. The password is prompted for when --password is\n" +
			"not given. With --refresh the stored token is exchanged for a new one.",
		Args: cobra.NoArgs,
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			if refresh {
				return runRefresh(ctx, cmd, rt)
			}
			return runLogin(ctx, cmd, rt, identity, password)
		}),
	}
	cmd.Flags().StringVar(&identity, "email", "", "email or username")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "renew the stored token instead of logging in")
	return cmd
}

func runLogin(ctx context.Context, cmd *cobra.Command, rt *runtime, identity, password string) error {
	if identity == "" {
		return userError(errors.New("--email is required"))
	}
	if password == "" {
		p, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return sysError(fmt.Errorf("read password: %w", err))
		}
		password = p
	}

	token, err := rt.client.Login(ctx, identity, password)
	if err != nil {
		return err
	}
	return saveSession(cmd, rt, token, identity)
}

func runRefresh(ctx context.Context, cmd *cobra.Command, rt *runtime) error {
	if !rt.creds.Present() {
		return userError(types.ErrNotLoggedIn)
	}
	var identity string
	if tf, err := auth.LoadToken(rt.tokenPath); err == nil {
		identity = tf.Email
	}
	token, err := rt.client.RefreshToken(ctx)
	if err != nil {
		return err
	}
	return saveSession(cmd, rt, token, identity)
}

// saveSession stores token in memory and in the token file, then reports
// who is logged in.
func saveSession(cmd *cobra.Command, rt *runtime, token, identity string) error {
	rt.creds.Set(token)
	tf := auth.TokenFile{
		Token:   token,
		Server:  rt.cfg.BaseURL,
		Email:   identity,
		SavedAt: time.Now().UTC(),
	}
	if err := auth.SaveToken(rt.tokenPath, tf); err != nil {
		return sysError(err)
	}

	out := cmd.OutOrStdout()
	who := rt.creds.Subject()
	if who == "" {
		who = identity
	}
	fmt.Fprintf(out, "logged in as %s\n", who)
	if exp, ok := rt.creds.ExpiresAt(); ok {
		fmt.Fprintf(out, "token expires %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			rt.creds.Clear()
			if err := auth.DeleteToken(rt.tokenPath); err != nil {
				return sysError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		}),
	}
}

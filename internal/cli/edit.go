package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backdesk/internal/mutation"
	"github.com/mesh-intelligence/backdesk/internal/session"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// parseAssignments turns field=value arguments into typed draft values.
func parseAssignments(res types.Resource, args []string) (types.Draft, error) {
	d := make(types.Draft, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected field=value)", arg)
		}
		f, ok := res.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", res.Name, types.ErrUnknownField, name)
		}
		v, err := f.Parse(raw)
		if err != nil {
			return nil, err
		}
		d[name] = v
	}
	return d, nil
}

// applyDraft copies values into an open session.
func applyDraft(s *session.EditSession, d types.Draft) error {
	for name, v := range d {
		if err := s.UpdateField(name, v); err != nil {
			return err
		}
	}
	return nil
}

// submitted prints the outcome of a create or update.
func (a *app) submitted(cmd *cobra.Command, rt *runtime, name string, r mutation.Result) error {
	if !r.OK {
		return rt.failure(r)
	}
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if s, err := rt.ws.Store(name); err == nil && !r.ID.IsZero() {
			if rec, ok := s.Find(r.ID); ok {
				return writeJSON(out, rec)
			}
		}
		return writeJSON(out, map[string]any{"id": r.ID})
	}
	if !r.ID.IsZero() {
		fmt.Fprintln(out, r.ID)
	}
	if r.Refresh.Failed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: reloading %s failed: %s\n", name, r.Refresh.Message)
	}
	return nil
}

func (a *app) newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <resource> field=value...",
		Short: "Create a record",
		Long: `Create opens a new record with the resource's default values, applies the
field=value assignments and submits it. Fields are validated locally before
anything is sent. An empty value for an optional text field, or the word
null, clears it.

Example:
  backdesk create customers name="Acme Ltd" email=ops@acme.test
  backdesk create products name=Widget price=9.5 stock=40`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			res, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			d, err := parseAssignments(res, args[1:])
			if err != nil {
				return userError(err)
			}

			s := session.New(res)
			s.OpenForCreate()
			if err := applyDraft(s, d); err != nil {
				return userError(err)
			}
			co, err := rt.ws.Coordinator(res.Name, nil)
			if err != nil {
				return userError(err)
			}
			return a.submitted(cmd, rt, res.Name, co.Submit(ctx, s))
		}),
	}
}

func (a *app) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <resource> <id> field=value...",
		Short: "Change fields of an existing record",
		Long: `Update loads the record, applies the field=value assignments over its
current values and submits the whole draft.

Example:
  backdesk update invoices 42 status=paid`,
		Args: cobra.MinimumNArgs(3),
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			res, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			id := types.ID(args[1])
			d, err := parseAssignments(res, args[2:])
			if err != nil {
				return userError(err)
			}

			st, err := refreshed(ctx, cmd, rt, res.Name)
			if err != nil {
				return err
			}
			rec, ok := st.Find(id)
			if !ok {
				return userError(fmt.Errorf("%s %s: %w", res.Name, id, types.ErrNotFound))
			}

			s := session.New(res)
			if err := s.OpenForEdit(rec); err != nil {
				return userError(err)
			}
			if err := applyDraft(s, d); err != nil {
				return userError(err)
			}
			co, err := rt.ws.Coordinator(res.Name, nil)
			if err != nil {
				return userError(err)
			}
			return a.submitted(cmd, rt, res.Name, co.Submit(ctx, s))
		}),
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			res, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			var confirm mutation.Confirmer = mutation.PromptConfirmer{
				In:  cmd.InOrStdin(),
				Out: cmd.ErrOrStderr(),
			}
			if yes {
				confirm = mutation.AlwaysConfirm
			}
			co, err := rt.ws.Coordinator(res.Name, confirm)
			if err != nil {
				return userError(err)
			}

			r := co.Remove(ctx, types.ID(args[1]))
			if r.Cancelled {
				fmt.Fprintln(cmd.ErrOrStderr(), r.Message)
				return nil
			}
			if !r.OK {
				return rt.failure(r)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": r.ID, "deleted": true})
			}
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			return a.runGet(ctx, cmd, rt, args[0], types.ID(args[1]))
		}),
	}
}

func (a *app) runGet(ctx context.Context, cmd *cobra.Command, rt *runtime, name string, id types.ID) error {
	res, err := rt.resource(name)
	if err != nil {
		return err
	}
	s, err := refreshed(ctx, cmd, rt, res.Name)
	if err != nil {
		return err
	}
	rec, ok := s.Find(id)
	if !ok {
		return userError(fmt.Errorf("%s %s: %w", res.Name, id, types.ErrNotFound))
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, rec)
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := formatter{currency: rt.cfg.Currency, locale: rt.cfg.Locale}
	tw := newTabWriter(out)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, f.cell(k, rec[k]))
	}
	if err := tw.Flush(); err != nil {
		return sysError(err)
	}
	return nil
}

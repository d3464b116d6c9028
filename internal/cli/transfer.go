package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/backdesk/internal/export"
	"github.com/mesh-intelligence/backdesk/internal/session"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

func (a *app) newExportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Write every record of a resource to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			if outPath == "" {
				return userError(errors.New("--out is required"))
			}
			res, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			s, err := rt.ws.Store(res.Name)
			if err != nil {
				return userError(err)
			}
			if st := s.Refresh(ctx); st.Failed() {
				return sysError(errors.New(st.Message))
			}
			n, err := export.WriteJSONL(outPath, s.Items())
			if err != nil {
				return sysError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d %s to %s\n", n, res.Name, outPath)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "destination file")
	return cmd
}

// importReport counts the outcome of an import run.
type importReport struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func (a *app) newImportCmd() *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import <resource>",
		Short: "Create one record per line of a JSONL file",
		Long: `Import reads a JSONL file and submits each object as a new record. Keys that
are not editable fields of the resource (including id) are ignored. Blank and
malformed lines are skipped; a rejected record does not stop the run.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			if inPath == "" {
				return userError(errors.New("--in is required"))
			}
			res, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			records, skipped, err := export.ReadJSONL(inPath)
			if err != nil {
				return userError(err)
			}
			co, err := rt.ws.Coordinator(res.Name, nil)
			if err != nil {
				return userError(err)
			}

			rep := importReport{Skipped: skipped}
			for i, rec := range records {
				if err := ctx.Err(); err != nil {
					return sysError(err)
				}
				s := session.New(res)
				s.OpenForCreate()
				if err := applyDraft(s, fieldsOf(res, rec)); err != nil {
					return sysError(err)
				}
				r := co.Submit(ctx, s)
				if r.OK {
					rep.Created++
					continue
				}
				rep.Failed++
				rt.logger.Info("import record rejected", zap.Int("record", i+1), zap.String("message", r.Message))
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if err := writeJSON(out, rep); err != nil {
					return sysError(err)
				}
			} else {
				fmt.Fprintf(out, "imported %s: %d created, %d failed, %d skipped\n",
					res.Name, rep.Created, rep.Failed, rep.Skipped)
			}
			if rep.Failed > 0 {
				return reported(fmt.Errorf("%d of %d records failed", rep.Failed, len(records)))
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "source file")
	return cmd
}

// fieldsOf keeps the editable fields of rec.
func fieldsOf(res types.Resource, rec types.Record) types.Draft {
	d := make(types.Draft, len(res.Fields))
	for _, f := range res.Fields {
		if v, ok := rec[f.Name]; ok {
			d[f.Name] = v
		}
	}
	return d
}

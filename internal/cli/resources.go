package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backdesk/internal/catalog"
	"github.com/mesh-intelligence/backdesk/internal/paths"
)

type resourceRow struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	Envelope     string   `json:"envelope"`
	SearchFields []string `json:"search_fields"`
	Fields       []string `json:"fields"`
}

func (a *app) newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the configured resources and their endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return sysError(err)
			}
			cfg, err := loadConfig(configDir)
			if err != nil {
				return userError(err)
			}
			cat, err := catalog.Standard().Apply(cfg.Resources)
			if err != nil {
				return userError(err)
			}

			rows := make([]resourceRow, 0, len(cat.Names()))
			for _, res := range cat.All() {
				row := resourceRow{
					Name:         res.Name,
					Path:         res.Path,
					Envelope:     string(res.Envelope),
					SearchFields: res.SearchFields,
				}
				for _, f := range res.Fields {
					row.Fields = append(row.Fields, f.Name)
				}
				rows = append(rows, row)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, rows)
			}
			tw := newTabWriter(out)
			fmt.Fprintln(tw, "NAME\tPATH\tENVELOPE\tSEARCH")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Path, r.Envelope, strings.Join(r.SearchFields, ","))
			}
			return tw.Flush()
		},
	}
}

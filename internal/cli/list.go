package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/backdesk/internal/view"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

type listOptions struct {
	query    string
	page     int
	pageSize int
	sort     string
	desc     bool
}

// listOutput is the --json form of one rendered page.
type listOutput struct {
	Resource string         `json:"resource"`
	Items    []types.Record `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	Pages    int            `json:"pages"`
	PageSize int            `json:"page_size"`
	Empty    string         `json:"empty,omitempty"`
	Stale    bool           `json:"stale,omitempty"`
}

func (a *app) newListCmd() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Search, sort and page through a resource",
		Long: `List fetches the resource, then filters it by --query (a case-insensitive
substring match over the resource's search fields), sorts it by --sort and
prints one page.

Example:
  backdesk list customers --query acme
  backdesk list products --sort price --desc --page 2 --page-size 20`,
		Args: cobra.ExactArgs(1),
		RunE: a.withRuntime(func(ctx context.Context, cmd *cobra.Command, args []string, rt *runtime) error {
			return a.runList(ctx, cmd, rt, args[0], opts)
		}),
	}
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "search text")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "rows per page (default: page_size from config)")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "field to sort by")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "sort in descending order")
	return cmd
}

func (a *app) runList(ctx context.Context, cmd *cobra.Command, rt *runtime, name string, opts listOptions) error {
	res, err := rt.resource(name)
	if err != nil {
		return err
	}
	if opts.page < 1 {
		return userError(errors.New("--page must be 1 or more"))
	}
	size := opts.pageSize
	if size == 0 {
		size = rt.cfg.PageSize
	}

	tbl := view.NewTable(rt.cfg.PageSize)
	if err := tbl.SetPageSize(size); err != nil {
		return userError(err)
	}
	tbl.SetQuery(opts.query)
	tbl.SetSort(types.SortSpec{Field: opts.sort, Desc: opts.desc})
	tbl.SetPage(opts.page - 1)

	s, err := refreshed(ctx, cmd, rt, res.Name)
	if err != nil {
		return err
	}
	page := view.Render(tbl, s.Items(), res.SearchFields)
	empty := view.Classify(s.Len(), page.TotalFilteredCount)
	pages := view.PageCount(page.TotalFilteredCount, size)

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		lo := listOutput{
			Resource: res.Name,
			Items:    page.Items,
			Total:    page.TotalFilteredCount,
			Page:     opts.page,
			Pages:    pages,
			PageSize: size,
			Stale:    s.Stale(),
		}
		if lo.Items == nil {
			lo.Items = []types.Record{}
		}
		if empty != view.HasRows {
			lo.Empty = empty.String()
		}
		return writeJSON(out, lo)
	}

	if empty != view.HasRows {
		fmt.Fprintln(out, empty)
		return nil
	}
	f := formatter{currency: rt.cfg.Currency, locale: rt.cfg.Locale}
	if err := writeRows(out, f, columns(res), page.Items); err != nil {
		return sysError(err)
	}
	fmt.Fprintf(out, "page %d of %d (%d records)\n", opts.page, pages, page.TotalFilteredCount)
	return nil
}

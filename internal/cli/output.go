package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/backdesk/internal/view"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// moneyFields are rendered in the configured currency in table output.
var moneyFields = map[string]bool{
	"price": true,
	"cost":  true,
	"total": true,
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// formatter renders field values for table output.
type formatter struct {
	currency string
	locale   string
}

func (f formatter) cell(field string, v any) string {
	if v == nil {
		return ""
	}
	if moneyFields[field] {
		if n, ok := types.NumberValue(v); ok {
			return f.money(n)
		}
	}
	return types.StringValue(v)
}

func (f formatter) money(amount float64) string {
	s, err := view.FormatMoney(amount, f.currency, f.locale)
	if err != nil {
		return fmt.Sprintf("%.2f", amount)
	}
	return s
}

// columns returns "id" followed by the resource's editable fields.
func columns(res types.Resource) []string {
	cols := make([]string, 0, len(res.Fields)+1)
	cols = append(cols, "id")
	for _, f := range res.Fields {
		cols = append(cols, f.Name)
	}
	return cols
}

// writeRows prints records as an aligned table with a header row.
func writeRows(w io.Writer, f formatter, cols []string, rows []types.Record) error {
	tw := newTabWriter(w)
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, strings.ToUpper(c))
	}
	fmt.Fprintln(tw)
	for _, r := range rows {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			if c == "id" {
				fmt.Fprint(tw, r.EntityID())
				continue
			}
			fmt.Fprint(tw, f.cell(c, r[c]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

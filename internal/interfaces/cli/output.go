package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// emit writes v as yaml or json, or calls table with a tab writer. Values
// are passed through json first so yaml keys follow the json tags of the
// entities.
func (a *App) emit(v any, table func(w *tabwriter.Writer)) error {
	switch a.format {
	case FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		plain, err := toPlain(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return err
		}
		return enc.Close()
	}

	if table == nil {
		return fmt.Errorf("no table layout for %T", v)
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	table(w)
	return w.Flush()
}

func toPlain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

func writeRow(w *tabwriter.Writer, cells []string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}

// writeForm prints the fields of an open form with reference labels
// resolved, followed by line rows and totals for documents
func (a *App) writeForm(ed records.Editor) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, f := range ed.Fields() {
		fmt.Fprintf(w, "%s:\t%s\n", f.Label, fieldText(ed, f))
	}

	if sheet := ed.Lines(); sheet != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "#\tITEM\tQUANTITY\tUNIT PRICE\tTOTAL")
		for i, row := range sheet.Rows() {
			item := "-"
			if p, err := ed.LinePicker(i); err == nil && p.Selected() != 0 {
				item = p.Label()
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, item, row.Quantity, row.UnitPrice, row.Total)
		}
		totals := ed.Totals()
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Subtotal:\t%s\n", totals.Subtotal.StringFixed(2))
		fmt.Fprintf(w, "Tax:\t%s\n", totals.Tax.StringFixed(2))
		fmt.Fprintf(w, "Grand Total:\t%s\n", totals.GrandTotal.StringFixed(2))
	}
	return w.Flush()
}

func fieldText(ed records.Editor, f records.FieldInfo) string {
	if f.Kind == records.KindReference {
		if p, ok := ed.Picker(f.Key); ok && p.Selected() != 0 {
			return p.Label()
		}
		return "-"
	}
	switch v := ed.Value(f.Key).(type) {
	case decimal.Decimal:
		return v.String()
	case string:
		if v == "" {
			return "-"
		}
		return v
	case nil:
		return "-"
	default:
		return fmt.Sprint(v)
	}
}

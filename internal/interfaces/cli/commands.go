package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/application/registry"
	"github.com/metabooks/erp/internal/application/seed"
	"github.com/spf13/pflag"
)

type runFunc func(ctx context.Context, args []string) error

// command declares its flags on fs and returns the function that runs it
// with the remaining positional arguments
type command struct {
	name    string
	args    string
	summary string
	flags   func(a *App, fs *pflag.FlagSet) runFunc
}

var commands = []command{
	{"modules", "", "list the module tabs and their resources", modulesCommand},
	{"open", "<module>", "load every list of a module tab and count its records", openCommand},
	{"list", "<resource> [-q query]", "list records, optionally filtered", listCommand},
	{"show", "<resource> <id>", "show one record as its edit form sees it", showCommand},
	{"add", "<resource> key=value... [--line spec]...", "create a record", addCommand},
	{"edit", "<resource> <id> key=value... [--line spec]...", "update a record", editCommand},
	{"delete", "<resource> <id> [-y]", "delete a record after confirmation", deleteCommand},
	{"options", "<resource> <field> [-q query] [--id id]", "list the choices of a reference field", optionsCommand},
	{"seed", "[-n count]", "create demo records for every resource", seedCommand},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func wantArgs(args []string, n int, names string) error {
	if len(args) < n {
		return fmt.Errorf("%w: expected %s", ErrUsage, names)
	}
	return nil
}

func parseRecordID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrUsage, raw)
	}
	return uint(id), nil
}

type moduleInfo struct {
	Name      string           `json:"name" yaml:"name"`
	Resources []registry.Entry `json:"resources" yaml:"resources"`
}

func modulesCommand(a *App, _ *pflag.FlagSet) runFunc {
	return func(ctx context.Context, _ []string) error {
		var modules []moduleInfo
		if err := a.client.Modules(ctx, &modules); err != nil {
			return err
		}
		return a.emit(modules, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "MODULE\tRESOURCE\tTITLE\tLOOKUPS\tLINES")
			for _, m := range modules {
				for _, r := range m.Resources {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", m.Name, r.Resource, r.Title, joinOrDash(r.Lookups), r.Lines)
				}
			}
		})
	}
}

type tabView struct {
	Resource string `json:"resource" yaml:"resource"`
	Title    string `json:"title" yaml:"title"`
	Records  int    `json:"records" yaml:"records"`
}

func openCommand(a *App, _ *pflag.FlagSet) runFunc {
	return func(ctx context.Context, args []string) error {
		if err := wantArgs(args, 1, "<module>"); err != nil {
			return err
		}
		ws := a.workspace(true)
		m, ok := ws.Module(args[0])
		if !ok {
			return fmt.Errorf("%w: unknown module %q (one of %s)", ErrUsage, args[0], strings.Join(registry.Modules, ", "))
		}
		// tables that failed to load are still listed, with what they hold
		loadErr := ws.Open(ctx, m.Name)

		views := make([]tabView, 0, len(m.Tables))
		for _, t := range m.Tables {
			views = append(views, tabView{Resource: t.Resource(), Title: t.Title(), Records: t.Len()})
		}
		if err := a.emit(views, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "RESOURCE\tTITLE\tRECORDS")
			for _, v := range views {
				fmt.Fprintf(w, "%s\t%s\t%d\n", v.Resource, v.Title, v.Records)
			}
		}); err != nil {
			return err
		}
		return loadErr
	}
}

func listCommand(a *App, fs *pflag.FlagSet) runFunc {
	query := fs.StringP("query", "q", "", "case-insensitive search text")
	return func(ctx context.Context, args []string) error {
		if err := wantArgs(args, 1, "<resource>"); err != nil {
			return err
		}
		_, t, err := a.table(args[0], false)
		if err != nil {
			return err
		}
		if err := t.Load(ctx); err != nil {
			return err
		}
		t.SetQuery(*query)

		return a.emit(t.Visible(), func(w *tabwriter.Writer) {
			writeRow(w, t.Columns())
			for _, row := range t.Rows() {
				writeRow(w, row)
			}
		})
	}
}

func showCommand(a *App, _ *pflag.FlagSet) runFunc {
	return func(ctx context.Context, args []string) error {
		if err := wantArgs(args, 2, "<resource> <id>"); err != nil {
			return err
		}
		e, t, err := a.table(args[0], false)
		if err != nil {
			return err
		}
		id, err := parseRecordID(args[1])
		if err != nil {
			return err
		}

		if a.format != FormatTable {
			var rec map[string]any
			if err := a.client.Get(ctx, e.Path(), id, &rec); err != nil {
				return err
			}
			return a.emit(rec, nil)
		}

		if err := t.Load(ctx); err != nil {
			return err
		}
		ed, err := t.StartEdit(ctx, id)
		if err != nil {
			return err
		}
		defer t.Cancel()
		return a.writeForm(ed)
	}
}

func addCommand(a *App, fs *pflag.FlagSet) runFunc {
	lines := fs.StringArrayP("line", "l", nil, "line item as item_id=..,quantity=..,unit_price=.. (repeatable)")
	return func(ctx context.Context, args []string) error {
		if err := wantArgs(args, 1, "<resource> key=value..."); err != nil {
			return err
		}
		_, t, err := a.table(args[0], false)
		if err != nil {
			return err
		}
		ed, err := t.StartCreate(ctx)
		if err != nil {
			return err
		}
		if err := fill(ed, args[1:], *lines); err != nil {
			t.Cancel()
			return err
		}
		return t.Save(ctx)
	}
}

func editCommand(a *App, fs *pflag.FlagSet) runFunc {
	lines := fs.StringArrayP("line", "l", nil, "replace the line items; repeat once per row")
	return func(ctx context.Context, args []string) error {
		if err := wantArgs(args, 2, "<resource> <id> key=value..."); err != nil {
			return err
		}
		_, t, err := a.table(args[0], false)
		if err != nil {
			return err
		}
		id, err := parseRecordID(args[1])
		if err != nil {
			return err
		}
		if err := t.Load(ctx); err != nil {
			return err
		}
		ed, err := t.StartEdit(ctx, id)
		if err != nil {
			return err
		}
		if len(*lines) > 0 {
			if err := resetLines(ed); err != nil {
				t.Cancel()
				return err
			}
		}
		if err := fill(ed, args[2:], *lines); err != nil {
			t.Cancel()
			return err
		}
		return t.Save(ctx)
	}
}

func deleteCommand(a *App, fs *pflag.FlagSet) runFunc {
	fs.BoolVarP(&a.yes, "yes", "y", false, "do not ask for confirmation")
	return func(ctx context.Context, args []string) error {
		if err := wantArgs(args, 2, "<resource> <id>"); err != nil {
			return err
		}
		_, t, err := a.table(args[0], false)
		if err != nil {
			return err
		}
		id, err := parseRecordID(args[1])
		if err != nil {
			return err
		}
		// the list provides the label shown in the prompt
		if err := t.Load(ctx); err != nil {
			return err
		}
		err = t.Delete(ctx, id)
		if errors.Is(err, records.ErrDeleteCanceled) {
			fmt.Fprintln(a.errOut, "Delete canceled")
			return nil
		}
		return err
	}
}

type optionView struct {
	ID       uint   `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Selected bool   `json:"selected" yaml:"selected"`
}

func optionsCommand(a *App, fs *pflag.FlagSet) runFunc {
	query := fs.StringP("query", "q", "", "case-insensitive search text")
	id := fs.Uint("id", 0, "mark the selection of this record")
	return func(ctx context.Context, args []string) error {
		if err := wantArgs(args, 2, "<resource> <field>"); err != nil {
			return err
		}
		_, t, err := a.table(args[0], false)
		if err != nil {
			return err
		}

		var ed records.Editor
		if *id != 0 {
			if err := t.Load(ctx); err != nil {
				return err
			}
			ed, err = t.StartEdit(ctx, *id)
		} else {
			ed, err = t.StartCreate(ctx)
		}
		if err != nil {
			return err
		}
		defer t.Cancel()

		p, err := fieldPicker(ed, args[1])
		if err != nil {
			return err
		}
		p.SetQuery(*query)

		opts := p.Options()
		views := make([]optionView, 0, len(opts))
		for _, o := range opts {
			views = append(views, optionView{ID: o.ID, Label: o.Label, Selected: p.Checked(o.ID)})
		}
		return a.emit(views, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "\tID\t"+p.Noun())
			for _, v := range views {
				mark := ""
				if v.Selected {
					mark = "✓"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", mark, v.ID, v.Label)
			}
		})
	}
}

// fieldPicker returns the picker of a reference field. item_id addresses
// the first line row of documents.
func fieldPicker(ed records.Editor, key string) (*records.Picker, error) {
	if p, ok := ed.Picker(key); ok {
		return p, nil
	}
	if key == lineItemKey && ed.Lines() != nil {
		return ed.LinePicker(0)
	}
	return nil, fmt.Errorf("%q is not a reference field", key)
}

func seedCommand(a *App, fs *pflag.FlagSet) runFunc {
	count := fs.IntP("count", "n", 5, "records to create per resource")
	fakeSeed := fs.Uint64("seed", 0, "random seed for reproducible data (0 picks one)")
	lines := fs.Int("max-lines", 3, "maximum line rows per document")
	return func(ctx context.Context, _ []string) error {
		opts := []seed.Option{seed.WithLogger(a.logger), seed.WithMaxLines(*lines)}
		if *fakeSeed != 0 {
			opts = append(opts, seed.WithSeed(*fakeSeed))
		}
		results, err := seed.New(opts...).Run(ctx, a.binding(true), *count)
		if emitErr := a.emit(results, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "RESOURCE\tCREATED")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%d\n", r.Resource, r.Created)
			}
		}); emitErr != nil && err == nil {
			err = emitErr
		}
		return err
	}
}

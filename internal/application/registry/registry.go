// Package registry declares every managed resource once: its schema, the
// module tab it belongs to and the lookups it depends on.
package registry

import (
	"fmt"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/domain/shared"
)

// Module names, in tab order
const (
	ModuleSales      = "sales"
	ModuleInventory  = "inventory"
	ModulePurchasing = "purchasing"
	ModuleHR         = "hr"
	ModuleAccounting = "accounting"
)

// Modules lists the module tabs in display order
var Modules = []string{ModuleSales, ModuleInventory, ModulePurchasing, ModuleHR, ModuleAccounting}

// Binding carries the collaborators shared by every table
type Binding struct {
	Transport records.Transport
	Lookups   records.LookupSource
	Options   []records.Option
}

// Entry is the catalogue description of one resource
type Entry struct {
	Module   string   `json:"module" yaml:"module"`
	Resource string   `json:"resource" yaml:"resource"`
	Title    string   `json:"title" yaml:"title"`
	Noun     string   `json:"noun" yaml:"noun"`
	Lookups  []string `json:"lookups,omitempty" yaml:"lookups,omitempty"`
	Lines    bool     `json:"lines" yaml:"lines"`

	bind func(Binding) records.Table
}

// Path is the REST path of the resource below the API version
func (e Entry) Path() string {
	return e.Module + "/" + e.Resource
}

// Table builds the list container of the resource
func (e Entry) Table(b Binding) records.Table {
	return e.bind(b)
}

func entry[T shared.Entity](s *records.Schema[T]) Entry {
	return Entry{
		Module:   s.Module,
		Resource: s.Resource,
		Title:    s.Title,
		Noun:     s.Noun,
		Lookups:  s.Lookups(),
		Lines:    s.HasLines(),
		bind: func(b Binding) records.Table {
			src := records.NewRemoteSource[T](b.Transport, s.Path())
			return records.NewCollection(s, src, b.Lookups, b.Options...).Table()
		},
	}
}

var catalogue = []Entry{
	entry(Customers()),
	entry(SalesPersons()),
	entry(DeliveryChallans()),
	entry(Regions()),
	entry(Items()),
	entry(Categories()),
	entry(Warehouses()),
	entry(Vendors()),
	entry(PurchaseRequisitions()),
	entry(PurchaseOrders()),
	entry(Departments()),
	entry(Designations()),
	entry(Accounts()),
}

// Catalogue returns every resource grouped by module in tab order
func Catalogue() []Entry {
	out := make([]Entry, len(catalogue))
	copy(out, catalogue)
	return out
}

// ByModule returns the resources of one module
func ByModule(module string) []Entry {
	var out []Entry
	for _, e := range catalogue {
		if e.Module == module {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns the entry of a resource name
func Lookup(resource string) (Entry, error) {
	for _, e := range catalogue {
		if e.Resource == resource {
			return e, nil
		}
	}
	return Entry{}, shared.ErrUnknownResource.WithMessage(fmt.Sprintf("unknown resource %q", resource))
}

// DependencyOrder returns the catalogue sorted so every resource comes
// after the resources it looks up
func DependencyOrder() []Entry {
	done := make(map[string]bool, len(catalogue))
	out := make([]Entry, 0, len(catalogue))

	var visit func(e Entry)
	visit = func(e Entry) {
		if done[e.Resource] {
			return
		}
		done[e.Resource] = true
		for _, dep := range e.Lookups {
			if d, err := Lookup(dep); err == nil {
				visit(d)
			}
		}
		out = append(out, e)
	}
	for _, e := range catalogue {
		visit(e)
	}
	return out
}

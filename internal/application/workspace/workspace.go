// Package workspace composes the module tab shells. Each shell holds one
// independent list container per resource of its module.
package workspace

import (
	"context"
	"fmt"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/application/registry"
	"github.com/metabooks/erp/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Module is one tab: a named group of tables
type Module struct {
	Name   string
	Tables []records.Table
}

// Table returns the table of resource within the module
func (m *Module) Table(resource string) (records.Table, bool) {
	for _, t := range m.Tables {
		if t.Resource() == resource {
			return t, true
		}
	}
	return nil, false
}

// Workspace holds every module tab
type Workspace struct {
	modules []*Module
	logger  *zap.Logger
}

// New builds one table per catalogue entry. All tables share the binding's
// transport, lookup source, confirmer and notifier.
func New(b registry.Binding, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	b.Options = append([]records.Option{records.WithLogger(logger)}, b.Options...)

	ws := &Workspace{logger: logger}
	for _, name := range registry.Modules {
		m := &Module{Name: name}
		for _, e := range registry.ByModule(name) {
			m.Tables = append(m.Tables, e.Table(b))
		}
		ws.modules = append(ws.modules, m)
	}
	return ws
}

// Modules returns the tabs in display order
func (w *Workspace) Modules() []*Module {
	return w.modules
}

// Module returns a tab by name
func (w *Workspace) Module(name string) (*Module, bool) {
	for _, m := range w.modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Table finds the table serving resource in any module
func (w *Workspace) Table(resource string) (records.Table, error) {
	for _, m := range w.modules {
		if t, ok := m.Table(resource); ok {
			return t, nil
		}
	}
	return nil, shared.ErrUnknownResource.WithMessage(fmt.Sprintf("unknown resource %q", resource))
}

// Open loads every table of a module concurrently, the way a tab loads its
// lists on mount. Tables fail independently; the first error is returned
// after all loads finish.
func (w *Workspace) Open(ctx context.Context, module string) error {
	m, ok := w.Module(module)
	if !ok {
		return shared.ErrUnknownResource.WithMessage(fmt.Sprintf("unknown module %q", module))
	}

	var g errgroup.Group
	for _, t := range m.Tables {
		g.Go(func() error {
			return t.Load(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		w.logger.Warn("Module opened with errors", zap.String("module", module), zap.Error(err))
		return err
	}
	return nil
}

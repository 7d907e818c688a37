package shell

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/namespace"
	"github.com/GriffinCanCode/AgentShell/internal/store"
)

// Modules is the home.modules surface: shortcut management plus saved
// script modules, both backed by the shared store.
type Modules struct {
	rt  *goja.Runtime
	reg *namespace.Registry
	db  store.ModuleStore
	log *logging.Logger
}

// NewModules creates the module manager.
func NewModules(rt *goja.Runtime, reg *namespace.Registry, db store.ModuleStore, log *logging.Logger) *Modules {
	return &Modules{rt: rt, reg: reg, db: db, log: log.Component("modules")}
}

// Shortcut creates or updates a shortcut; a nil path removes it.
func (m *Modules) Shortcut(name string, path *string) (bool, error) {
	if path == nil {
		if err := m.reg.Remove(name); err != nil {
			return false, err
		}
		return true, nil
	}
	return m.reg.Create(name, *path)
}

// Shortcuts lists all shortcut bindings.
func (m *Modules) Shortcuts() ([]namespace.ShortcutInfo, error) {
	return m.reg.List()
}

// Save persists a script module's source.
func (m *Modules) Save(name, source string) error {
	if name == "" {
		return errors.New("module name is required")
	}
	now := time.Now().UnixMilli()
	return m.db.SaveModule(store.ModuleRow{
		Name: name, Source: source, CreatedAt: now, UpdatedAt: now,
	})
}

// Load evaluates a saved module in the current runtime.
func (m *Modules) Load(name string) (goja.Value, error) {
	row, err := m.db.GetModule(name)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", name, err)
	}
	return m.rt.RunString(row.Source)
}

// List returns the saved module names with timestamps.
func (m *Modules) List() ([]store.ModuleRow, error) {
	return m.db.ListModules()
}

// Remove deletes a saved module. Idempotent.
func (m *Modules) Remove(name string) error {
	if err := m.db.DeleteModule(name); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// Object builds the goja object bound as home.modules.
func (m *Modules) Object() *goja.Object {
	obj := m.rt.NewObject()

	_ = obj.Set("shortcut", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		var path *string
		if arg := call.Argument(1); !goja.IsNull(arg) && !goja.IsUndefined(arg) {
			s := arg.String()
			path = &s
		}
		ok, err := m.Shortcut(name, path)
		if err != nil {
			panic(m.rt.NewGoError(err))
		}
		return m.rt.ToValue(ok)
	})

	_ = obj.Set("shortcuts", func(call goja.FunctionCall) goja.Value {
		infos, err := m.Shortcuts()
		if err != nil {
			panic(m.rt.NewGoError(err))
		}
		out := make([]interface{}, len(infos))
		for i, info := range infos {
			out[i] = map[string]interface{}{
				"name":      info.Name,
				"path":      info.Path,
				"createdAt": info.CreatedAt.Format(time.RFC3339),
				"updatedAt": info.UpdatedAt.Format(time.RFC3339),
			}
		}
		return m.rt.ToValue(out)
	})

	_ = obj.Set("save", func(call goja.FunctionCall) goja.Value {
		if err := m.Save(call.Argument(0).String(), call.Argument(1).String()); err != nil {
			panic(m.rt.NewGoError(err))
		}
		return m.rt.ToValue(true)
	})

	_ = obj.Set("load", func(call goja.FunctionCall) goja.Value {
		val, err := m.Load(call.Argument(0).String())
		if err != nil {
			panic(m.rt.NewGoError(err))
		}
		return val
	})

	_ = obj.Set("list", func(call goja.FunctionCall) goja.Value {
		rows, err := m.List()
		if err != nil {
			panic(m.rt.NewGoError(err))
		}
		out := make([]interface{}, len(rows))
		for i, row := range rows {
			out[i] = map[string]interface{}{
				"name":      row.Name,
				"updatedAt": time.UnixMilli(row.UpdatedAt).Format(time.RFC3339),
			}
		}
		return m.rt.ToValue(out)
	})

	_ = obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		if err := m.Remove(call.Argument(0).String()); err != nil {
			panic(m.rt.NewGoError(err))
		}
		return m.rt.ToValue(true)
	})

	return obj
}

package namespace

import (
	"errors"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/store"
)

// ShortcutInfo is one shortcut binding with structured timestamps.
type ShortcutInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Registry manages shortcut rows and the global callables synthesized
// from them. It tracks exactly which globals it installed so Teardown
// removes those and nothing else.
type Registry struct {
	rt    *goja.Runtime
	store store.KernelStore
	port  *Port
	log   *logging.Logger
	bus   *event.Bus

	installed map[string]string // name -> path
}

// NewRegistry creates a registry. bus may be nil.
func NewRegistry(rt *goja.Runtime, st store.KernelStore, port *Port, bus *event.Bus, log *logging.Logger) *Registry {
	return &Registry{
		rt:        rt,
		store:     st,
		port:      port,
		log:       log.Component("shortcuts"),
		bus:       bus,
		installed: make(map[string]string),
	}
}

// Create upserts a shortcut and installs its global callable. Reserved
// names and names that would shadow a global the registry did not
// itself install are rejected with a logged error and (false, nil).
// Registering a path that does not currently resolve is allowed; the
// failure belongs to the call site, not the registration.
func (r *Registry) Create(name, path string) (bool, error) {
	if IsReserved(name) {
		r.log.Error("refusing reserved name for shortcut", zap.String("name", name))
		return false, nil
	}
	if _, err := SplitPath(path); err != nil {
		return false, err
	}
	if _, ours := r.installed[name]; !ours {
		if g := r.rt.GlobalObject().Get(name); g != nil && !goja.IsUndefined(g) {
			r.log.Error("shortcut name shadows an existing global",
				zap.String("name", name))
			return false, nil
		}
	}

	now := time.Now().UnixMilli()
	row := store.ShortcutRow{Name: name, Path: path, CreatedAt: now, UpdatedAt: now}
	if err := r.store.UpsertShortcut(row); err != nil {
		return false, err
	}

	if err := r.Rebind(name, path); err != nil {
		return false, err
	}
	r.publish(event.ShortcutCreated, map[string]any{"name": name, "path": path})
	return true, nil
}

// Update has upsert semantics; re-registering refreshes the row's
// updated_at and rebinds the global.
func (r *Registry) Update(name, path string) (bool, error) {
	return r.Create(name, path)
}

// Rebind installs the global callable for an existing row without
// touching the store. Bootstrap uses it to rehydrate shortcuts.
//
// The callable re-walks path from the namespace root on every
// invocation. Nothing is cached: redefining the value at the path
// changes the shortcut's behavior with no re-registration. A missing
// segment is thrown to the caller as a path error; a callable target
// is invoked with the call's arguments; a plain value is returned
// as-is.
func (r *Registry) Rebind(name, path string) error {
	fn := func(call goja.FunctionCall) goja.Value {
		r.publish(event.ShortcutInvoked, map[string]any{"name": name, "path": path})

		target, err := Walk(r.rt, r.port.Object(), path)
		if err != nil {
			panic(r.rt.NewGoError(err))
		}
		if callable, ok := goja.AssertFunction(target); ok {
			res, err := callable(goja.Undefined(), call.Arguments...)
			if err != nil {
				panic(r.rt.NewGoError(err))
			}
			return res
		}
		return target
	}

	if err := r.rt.Set(name, fn); err != nil {
		return err
	}
	r.installed[name] = path
	return nil
}

// Remove deletes the row and the global. Idempotent when absent.
func (r *Registry) Remove(name string) error {
	if err := r.store.DeleteShortcut(name); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, ok := r.installed[name]; ok {
		if err := r.rt.GlobalObject().Delete(name); err != nil {
			return err
		}
		delete(r.installed, name)
		r.publish(event.ShortcutRemoved, map[string]any{"name": name})
	}
	return nil
}

// List returns every persisted shortcut with structured timestamps.
func (r *Registry) List() ([]ShortcutInfo, error) {
	rows, err := r.store.ListShortcuts()
	if err != nil {
		return nil, err
	}
	infos := make([]ShortcutInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, ShortcutInfo{
			Name:      row.Name,
			Path:      row.Path,
			CreatedAt: time.UnixMilli(row.CreatedAt),
			UpdatedAt: time.UnixMilli(row.UpdatedAt),
		})
	}
	return infos, nil
}

// Installed reports whether the registry currently owns a global with
// this name.
func (r *Registry) Installed(name string) bool {
	_, ok := r.installed[name]
	return ok
}

// Teardown removes every global the registry installed. Rows are left
// alone; the next bootstrap reinstalls them.
func (r *Registry) Teardown() {
	for name := range r.installed {
		if err := r.rt.GlobalObject().Delete(name); err != nil {
			r.log.Warn("failed to remove shortcut global",
				zap.String("name", name), zap.Error(err))
		}
		delete(r.installed, name)
	}
}

func (r *Registry) publish(t event.Type, data map[string]any) {
	if r.bus != nil {
		r.bus.Publish(event.Event{Type: t, Data: data})
	}
}

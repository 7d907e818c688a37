package namespace

import (
	"errors"
	"sort"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/store"
)

// Port is the root namespace object behind explicit get/set/delete
// interception. Go callers use the methods directly; scripts reach the
// same three paths through the `home` global, which is a goja dynamic
// object backed by this struct.
//
// Write ordering is the kernel's core invariant: the store row is
// written before the in-memory binding becomes observable, so a crash
// between the two never leaves memory ahead of disk.
type Port struct {
	rt    *goja.Runtime
	store store.KernelStore
	ser   *Serializer
	log   *logging.Logger
	bus   *event.Bus

	props map[string]goja.Value
	obj   *goja.Object
}

// NewPort creates the port. bus may be nil (tests, headless boot).
func NewPort(rt *goja.Runtime, st store.KernelStore, ser *Serializer, bus *event.Bus, log *logging.Logger) *Port {
	return &Port{
		rt:    rt,
		store: st,
		ser:   ser,
		log:   log.Component("namespace"),
		bus:   bus,
		props: make(map[string]goja.Value),
	}
}

// Object returns the goja-facing root object.
func (p *Port) Object() *goja.Object {
	if p.obj == nil {
		p.obj = p.rt.NewDynamicObject(&rootObject{p: p})
	}
	return p.obj
}

// Serializer exposes the codec the port writes rows with, for callers
// that replay externally sourced payloads through Set.
func (p *Port) Serializer() *Serializer {
	return p.ser
}

// Install binds the root object into the runtime's global scope.
func (p *Port) Install() error {
	return p.rt.Set(RootName, p.Object())
}

// Get is a plain passthrough; missing names read as undefined.
func (p *Port) Get(name string) goja.Value {
	if v, ok := p.props[name]; ok {
		return v
	}
	return goja.Undefined()
}

// Has reports whether name is currently bound.
func (p *Port) Has(name string) bool {
	_, ok := p.props[name]
	return ok
}

// Keys returns all bound names, built-ins included, in sorted order.
func (p *Port) Keys() []string {
	keys := make([]string, 0, len(p.props))
	for k := range p.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set binds a custom property and persists it. Reserved names are
// rejected with a logged error and (false, nil); interactive misuse
// must not kill the session. Null and undefined mean delete. A store
// failure returns the error and leaves memory untouched.
func (p *Port) Set(name string, value goja.Value) (bool, error) {
	if IsReserved(name) {
		p.log.Error("refusing to overwrite reserved name", zap.String("key", name))
		p.publish(event.NamespaceDenied, map[string]any{"key": name})
		return false, nil
	}

	if value == nil || goja.IsNull(value) || goja.IsUndefined(value) {
		if err := p.Delete(name); err != nil {
			return false, err
		}
		return true, nil
	}

	payload, typeTag, err := p.ser.Serialize(value)
	if err != nil {
		return false, err
	}

	row := store.PropertyRow{
		Key:       name,
		Value:     payload,
		Type:      typeTag,
		UpdatedAt: time.Now().UnixMilli(),
	}
	// Durable first, visible second.
	if err := p.store.UpsertProperty(row); err != nil {
		return false, err
	}

	p.props[name] = value
	p.publish(event.NamespaceSet, map[string]any{"key": name, "type": typeTag})
	return true, nil
}

// Delete removes the row and the in-memory binding. Idempotent: a
// missing row or property is not an error.
func (p *Port) Delete(name string) error {
	if err := p.store.DeleteProperty(name); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, ok := p.props[name]; ok {
		delete(p.props, name)
		p.publish(event.NamespaceDeleted, map[string]any{"key": name})
	}
	return nil
}

// Bind installs a built-in subsystem object at boot. It bypasses both
// the guard and the store: built-ins are code, not data.
func (p *Port) Bind(name string, value interface{}) {
	p.props[name] = p.rt.ToValue(value)
}

// Hydrate assigns a revived property directly, bypassing the set
// interceptor so bootstrap does not write back rows that are already
// durable.
func (p *Port) Hydrate(name string, value goja.Value) {
	p.props[name] = value
}

func (p *Port) publish(t event.Type, data map[string]any) {
	if p.bus != nil {
		p.bus.Publish(event.Event{Type: t, Data: data})
	}
}

// rootObject adapts the port to goja's dynamic object protocol. Store
// failures surface into scripts as thrown GoErrors; reserved-name
// rejections surface as a false return, which strict-mode code sees as
// a TypeError and sloppy-mode code ignores.
type rootObject struct {
	p *Port
}

func (r *rootObject) Get(key string) goja.Value { return r.p.Get(key) }

func (r *rootObject) Set(key string, val goja.Value) bool {
	ok, err := r.p.Set(key, val)
	if err != nil {
		panic(r.p.rt.NewGoError(err))
	}
	return ok
}

func (r *rootObject) Has(key string) bool { return r.p.Has(key) }

func (r *rootObject) Delete(key string) bool {
	if err := r.p.Delete(key); err != nil {
		panic(r.p.rt.NewGoError(err))
	}
	return true
}

func (r *rootObject) Keys() []string { return r.p.Keys() }

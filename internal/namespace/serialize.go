package namespace

import (
	"fmt"

	"github.com/dop251/goja"
)

// TypeFunction is the type tag stored for callable values.
const TypeFunction = "function"

// Serializer converts runtime values to (payload, type) pairs and
// back, using the engine's own typeof/JSON semantics so stored rows
// match what a script would observe.
type Serializer struct {
	rt        *goja.Runtime
	typeOf    goja.Callable
	stringify goja.Callable
	parse     goja.Callable
}

// NewSerializer builds a serializer bound to one runtime.
func NewSerializer(rt *goja.Runtime) (*Serializer, error) {
	typeOfVal, err := rt.RunString(`(function (v) { return typeof v; })`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile typeof helper: %w", err)
	}
	typeOf, _ := goja.AssertFunction(typeOfVal)

	jsonVal := rt.Get("JSON")
	if jsonVal == nil {
		return nil, fmt.Errorf("runtime has no JSON global")
	}
	jsonObj := jsonVal.ToObject(rt)
	stringify, ok := goja.AssertFunction(jsonObj.Get("stringify"))
	if !ok {
		return nil, fmt.Errorf("JSON.stringify is not callable")
	}
	parse, ok := goja.AssertFunction(jsonObj.Get("parse"))
	if !ok {
		return nil, fmt.Errorf("JSON.parse is not callable")
	}

	return &Serializer{rt: rt, typeOf: typeOf, stringify: stringify, parse: parse}, nil
}

// Serialize returns the storable payload and type tag for v. Callers
// never pass null or undefined; those mean "delete the row" and are
// handled before serialization. Callable values are stored as their
// source text. Everything else goes through the engine's
// JSON.stringify, which drops function-valued properties of objects.
func (s *Serializer) Serialize(v goja.Value) (payload, typeTag string, err error) {
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return "", "", fmt.Errorf("namespace: serialize called for null/undefined")
	}

	if _, ok := goja.AssertFunction(v); ok {
		return v.String(), TypeFunction, nil
	}

	tagVal, err := s.typeOf(goja.Undefined(), v)
	if err != nil {
		return "", "", fmt.Errorf("typeof failed: %w", err)
	}

	out, err := s.stringify(goja.Undefined(), v)
	if err != nil {
		return "", "", fmt.Errorf("stringify failed: %w", err)
	}
	if goja.IsUndefined(out) {
		return "", "", ErrNotSerializable
	}
	return out.String(), tagVal.String(), nil
}

// Deserialize revives a stored (payload, type) pair. Function payloads
// are evaluated as an expression, which is exactly where closure loss
// happens: the revived callable is compiled fresh against the current
// global scope.
func (s *Serializer) Deserialize(payload, typeTag string) (goja.Value, error) {
	if typeTag == TypeFunction {
		v, err := s.rt.RunString("(" + payload + ")")
		if err != nil {
			return nil, fmt.Errorf("failed to compile function: %w", err)
		}
		return v, nil
	}

	v, err := s.parse(goja.Undefined(), s.rt.ToValue(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	return v, nil
}

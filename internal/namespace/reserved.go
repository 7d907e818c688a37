package namespace

import "sort"

// RootName is the global identifier the namespace itself is bound to
// inside the script engine.
const RootName = "home"

// reserved is the fixed set of identifiers user code may never bind as
// custom properties or shortcuts. It covers every built-in subsystem
// the kernel installs plus kernel-owned entry points. Fixed at build
// time; there is no registration API on purpose.
var reserved = map[string]struct{}{
	RootName:    {},
	"modules":   {}, // module management + shortcut API
	"db":        {}, // shared store handle
	"computer":  {}, // OS automation
	"fs":        {}, // filesystem
	"sys":       {}, // system info
	"clipboard": {},
	"ui":        {}, // control-plane bridge
	"ai":        {},
	"help":      {},
	"status":    {},
	"context":   {},
}

// IsReserved reports whether name belongs to a built-in subsystem.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// ReservedNames returns the reserved set in sorted order.
func ReservedNames() []string {
	names := make([]string, 0, len(reserved))
	for name := range reserved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

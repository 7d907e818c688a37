// Package namespace implements the persistent namespace kernel: the
// root object the shell exposes to scripts, with every custom property
// and shortcut transparently written through to the shared store and
// rehydrated on the next start.
//
// The kernel owns two tables (custom_properties, shortcuts) and four
// pieces: a Serializer that round-trips values (including function
// source text), a reserved-name guard protecting built-in subsystems,
// a shortcut registry that installs lazily-resolved global callables,
// and a Bootstrapper that replays both tables before user code runs.
//
// Functions are persisted as source text only. A revived function sees
// its own source and whatever globals exist at call time; lexical
// closures captured at definition time do not survive a restart. This
// is the documented contract, not a defect.
package namespace

// Package store defines the durable storage contract shared by the
// namespace kernel, the module manager, and the shell.
//
// One logical SQLite database backs everything; each subsystem owns
// its own tables. The kernel owns custom_properties and shortcuts and
// accesses them only through KernelStore. All operations are
// synchronous: an upsert followed by a get in the same logical turn
// observes the written value.
package store

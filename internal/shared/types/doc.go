// Package types provides shared data structures for the shell backend.
//
// This package defines the provider contract types used across all
// subsystems so that providers, the registry, and the namespace bridge
// agree on one shape.
//
// Core Types:
//   - Service: Provider definition with capabilities and tools
//   - Tool: Provider tool specification
//   - Parameter: Tool parameter schema
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Example Usage:
//
//	res, err := provider.Execute(ctx, "fs.read", params, appCtx)
//	if res.Success {
//	    data := res.Data["content"]
//	}
package types

// Package service provides the provider registry behind the shell's
// built-in namespaces.
//
// The registry maintains the catalog of providers (filesystem, command
// execution, clipboard, system, AI, UI bridge), resolves "service.tool"
// identifiers to executions, and ranks providers against free-text
// queries for home.help.
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(filesystemProvider)
//	matches := registry.Discover("read file", 5)
//	result, err := registry.Execute(ctx, "fs.read", params, appCtx)
package service

// Package main is the agentshell entry point.
//
// agentshell is an interactive script shell whose root namespace (the
// `home` global) survives restarts: custom properties, shortcuts, and
// saved modules live in SQLite and are rehydrated on boot.
//
// The binary has three modes:
//   - default: interactive REPL
//   - serve:   headless HTTP control plane (REST + WebSocket stream)
//   - run:     evaluate one script file and exit
//
// Configuration:
//   - Environment variables (12-factor), optionally from .env
//   - CLI flags (override env vars)
//   - Defaults for local use
//
// Usage:
//
//	# Interactive shell against the default database
//	./agentshell
//
//	# Shell plus control plane on a custom address
//	./agentshell --serve --addr 127.0.0.1:9000
//
//	# Headless server
//	./agentshell serve
//
//	# Batch evaluation
//	./agentshell run setup.js
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main

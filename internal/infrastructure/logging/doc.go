// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Subsystems tag themselves with Component, so a single sink can be
// filtered by kernel, shortcut, provider, or control-plane origin.
//
// Example Usage:
//
//	log := logging.NewDefault().Component("namespace")
//	log.Info("property persisted", zap.String("key", key))
package logging

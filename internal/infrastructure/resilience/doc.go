// Package resilience implements a three-state circuit breaker
// (closed, open, half-open) used to guard calls to the local model
// server. Failure thresholds, probe limits, and state-change callbacks
// are configurable through Settings.
package resilience

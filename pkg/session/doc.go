// Package session coordinates concurrent access to per-run flow state:
// in-process locks with reference counting, plus an optional
// distributed locker for multi-replica deployments.
package session

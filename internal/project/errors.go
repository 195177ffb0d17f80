package project

import "errors"

// I/O, parse, and symbol-not-found failures are represented by ordinary
// wrapped errors at their call sites (they carry per-file/per-query
// context); the sentinels below are the ones callers branch on directly.
var (
	// ErrIndexNotFound means the persistent index is absent: the caller
	// must build before querying.
	ErrIndexNotFound = errors.New("project: persistent index not found, run index first")

	// ErrLockContention means a rebuild/watch is already in progress for
	// this project root.
	ErrLockContention = errors.New("project: a rebuild is already in progress for this root")

	// ErrNotRegistered means the project root was never registered with
	// the manager.
	ErrNotRegistered = errors.New("project: root is not registered")
)

package persist

import "errors"

// Error kinds surfaced by Save/Load, checkable with errors.Is.
var (
	// ErrPersistenceIO covers read/write failures during save/load.
	ErrPersistenceIO = errors.New("persistence io error")

	// ErrPersistenceFormat covers a magic mismatch, unknown version,
	// truncated record, or a decoded struct failing an invariant.
	ErrPersistenceFormat = errors.New("persistence format error")
)

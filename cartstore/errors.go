// cartstore/errors.go

package cartstore

import (
	"errors"
	"fmt"
)

var (
	// ErrRehydration marks a persisted cart that could not be read or
	// parsed. Load recovers from it by starting empty.
	ErrRehydration = errors.New("cartstore: rehydration failed")

	// ErrPersistence marks a failed write of the cart to the durable store.
	ErrPersistence = errors.New("cartstore: persistence write failed")

	// ErrUnknownItem is returned by Increment and Decrement for an id that
	// is not in the cart, only when the store was built WithStrictIDs.
	ErrUnknownItem = errors.New("cartstore: unknown item")

	// ErrMisuse is the target for errors.Is on a recovered MisuseError.
	ErrMisuse = errors.New("cartstore: misuse")
)

// PersistenceError is returned by a mutating operation whose write to the
// durable store failed. The in-memory cart already holds the new state.
type PersistenceError struct {
	Key     string
	Version uint64
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cartstore: persist %s (version %d): %v", e.Key, e.Version, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// MisuseError is the panic value for programming errors: using a disposed
// store or asking for a store from a context that was never provisioned.
type MisuseError struct {
	Op     string
	Reason string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("cartstore: %s: %s", e.Op, e.Reason)
}

func (e *MisuseError) Is(target error) bool { return target == ErrMisuse }

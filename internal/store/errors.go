package store

import "fmt"

// ReadError means the slot exists but could not be read or decoded.
// The best-effort API treats it as an empty state.
type ReadError struct {
	Backend   string
	Namespace string
	Err       error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read progress (%s slot %q): %v", e.Backend, e.Namespace, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError means a save or clear did not reach durable storage.
// The best-effort API logs it and carries on.
type WriteError struct {
	Op        string // save|clear
	Backend   string
	Namespace string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s progress (%s slot %q): %v", e.Op, e.Backend, e.Namespace, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

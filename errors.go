package ggdoc

import (
	"errors"
	"fmt"
)

// Common errors for workspace and history operations.
var (
	// ErrInvariant is the parent of every consistency violation. An error
	// matching it is a programming error: the caller must not retry, and
	// the session should be treated as corrupt.
	ErrInvariant = errors.New("ggdoc: history invariant violated")

	// ErrStaleLayerIndex is returned when a memento addresses a layer index
	// that does not exist in the current document.
	ErrStaleLayerIndex = &invariantError{msg: "ggdoc: stale layer index"}

	// ErrToolMismatch is returned when a tool-context memento is undone
	// while a different tool is active.
	ErrToolMismatch = &invariantError{msg: "ggdoc: active tool does not own memento"}

	// ErrScratchBorrowed is returned when the scratch surface is borrowed twice.
	ErrScratchBorrowed = errors.New("ggdoc: scratch surface already borrowed")

	// ErrScratchNotBorrowed is returned when returning an unborrowed scratch surface.
	ErrScratchNotBorrowed = errors.New("ggdoc: scratch surface was not borrowed")

	// ErrScratchMismatch is returned when a foreign surface is returned as scratch.
	ErrScratchMismatch = errors.New("ggdoc: returned surface is not the scratch surface")

	// ErrReentrantStep is returned when the history is mutated from inside a
	// memento that is being executed.
	ErrReentrantStep = errors.New("ggdoc: history mutated while a step is executing")

	// ErrAlreadyExecuted is returned when a Function is run a second time.
	ErrAlreadyExecuted = errors.New("ggdoc: function already executed")

	// ErrUnknownTool is returned when activating a tool that was never registered.
	ErrUnknownTool = errors.New("ggdoc: unknown tool")

	// ErrInvalidDimensions is returned for non-positive document sizes.
	ErrInvalidDimensions = errors.New("ggdoc: invalid dimensions")

	// ErrNoActiveLayer is returned when a capture starts without a layer to read.
	ErrNoActiveLayer = errors.New("ggdoc: no active layer")
)

// invariantError is a sentinel that also matches ErrInvariant.
type invariantError struct {
	msg string
}

func (e *invariantError) Error() string { return e.msg }

func (e *invariantError) Is(target error) bool {
	return target == ErrInvariant
}

// staleLayer wraps ErrStaleLayerIndex with the offending index.
func staleLayer(op string, index, count int) error {
	return fmt.Errorf("%s: layer %d of %d: %w", op, index, count, ErrStaleLayerIndex)
}

// NonFatalError reports a Function failure that left the document unchanged.
type NonFatalError struct {
	Function string
	Err      error
}

func (e *NonFatalError) Error() string {
	return fmt.Sprintf("ggdoc: %s failed without changing the document: %v", e.Function, e.Err)
}

func (e *NonFatalError) Unwrap() error { return e.Err }

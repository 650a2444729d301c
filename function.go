package ggdoc

import (
	"context"
	"fmt"
)

// Function is a one-shot history operation: it mutates the workspace and
// returns the memento that reverts the mutation.
//
// Execute returns (nil, nil) when there is nothing to record, including
// when ctx is cancelled; the document must then be unchanged. Concrete
// functions embed FunctionBase.
type Function interface {
	Name() string
	Execute(ctx context.Context, ws *Workspace) (Memento, error)
	functionBase() *FunctionBase
}

// FunctionBase tracks the run-once state of a Function.
type FunctionBase struct {
	executed bool
	critical bool
}

func (b *FunctionBase) functionBase() *FunctionBase { return b }

// EnterCriticalRegion marks the point after which a failure may leave the
// document partly changed. Errors returned afterwards are not wrapped in
// NonFatalError.
func (b *FunctionBase) EnterCriticalRegion() { b.critical = true }

// Executed reports whether the function has been run.
func (b *FunctionBase) Executed() bool { return b.executed }

// RunFunction executes f once against ws and pushes the memento it returns.
//
// Errors raised before f entered its critical region are returned as
// *NonFatalError: the document is unchanged and the session may continue.
func RunFunction(ctx context.Context, ws *Workspace, f Function) (Memento, error) {
	b := f.functionBase()
	if b.executed {
		return nil, fmt.Errorf("%s: %w", f.Name(), ErrAlreadyExecuted)
	}
	b.executed = true

	m, err := f.Execute(ctx, ws)
	if err != nil {
		if b.critical {
			ws.logger().Error("function failed in critical region", "function", f.Name(), "err", err)
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		ws.logger().Warn("function failed", "function", f.Name(), "err", err)
		return nil, &NonFatalError{Function: f.Name(), Err: err}
	}
	if m == nil {
		ws.logger().Debug("function recorded nothing", "function", f.Name())
		return nil, nil
	}
	if err := ws.history.PushNewMemento(m); err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}

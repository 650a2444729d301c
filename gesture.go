package ggdoc

import "time"

// GestureKind classifies the tool that produced a gesture.
type GestureKind uint8

const (
	GestureSelection GestureKind = iota
	GesturePaint
	GestureMove
)

// Outcome is what a tool does with a finished gesture.
type Outcome uint8

const (
	// OutcomeCommit records the edit.
	OutcomeCommit Outcome = iota
	// OutcomeDiscard throws the edit away, as for an accidental click.
	OutcomeDiscard
	// OutcomeNoOp records nothing because the result has no effect.
	OutcomeNoOp
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommit:
		return "Commit"
	case OutcomeDiscard:
		return "Discard"
	case OutcomeNoOp:
		return "NoOp"
	default:
		return "Unknown"
	}
}

// GesturePolicy decides what happens to a finished gesture.
type GesturePolicy struct {
	// QuickGesture is the shortest selection drag that is kept.
	QuickGesture time.Duration
}

// NewGesturePolicy returns the policy configured by cfg.
func NewGesturePolicy(cfg *Config) GesturePolicy {
	return GesturePolicy{QuickGesture: cfg.QuickGesture}
}

// Decide returns the outcome of a gesture that lasted elapsed and whose
// result, clipped to the canvas, is empty when clippedEmpty is set.
//
//	kind       elapsed          clipped result  outcome
//	selection  < QuickGesture   any             Discard
//	any        otherwise        empty           NoOp
//	any        otherwise        non-empty       Commit
func (p GesturePolicy) Decide(elapsed time.Duration, clippedEmpty bool, kind GestureKind) Outcome {
	if kind == GestureSelection && elapsed < p.QuickGesture {
		return OutcomeDiscard
	}
	if clippedEmpty {
		return OutcomeNoOp
	}
	return OutcomeCommit
}

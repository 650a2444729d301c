package ggdoc

import (
	"fmt"

	"github.com/google/uuid"
)

// HistoryEvent identifies a history notification.
type HistoryEvent uint8

const (
	EventNewMemento HistoryEvent = iota
	EventSteppedBackward
	EventSteppedForward
	EventFinishedStepGroup
	EventFlushed
)

// String returns the event name.
func (e HistoryEvent) String() string {
	switch e {
	case EventNewMemento:
		return "NewMemento"
	case EventSteppedBackward:
		return "SteppedBackward"
	case EventSteppedForward:
		return "SteppedForward"
	case EventFinishedStepGroup:
		return "FinishedStepGroup"
	case EventFlushed:
		return "Flushed"
	default:
		return "Unknown"
	}
}

// HistoryStack owns the undo and redo lists of a workspace.
//
// The undo list is ordered oldest first; the redo list holds the most
// recently undone entry last. Callers never edit the lists directly.
//
// HistoryStack is not safe for concurrent use; see Workspace.
type HistoryStack struct {
	ws         *Workspace
	undo       []Memento
	redo       []Memento
	depth      int
	executing  bool
	maxEntries int
	listeners  []func(HistoryEvent, Memento)
}

func newHistoryStack(ws *Workspace, maxEntries int) *HistoryStack {
	return &HistoryStack{ws: ws, maxEntries: maxEntries}
}

// Subscribe registers fn for every history event. m is the memento pushed
// or stepped, nil for group and flush events.
func (h *HistoryStack) Subscribe(fn func(e HistoryEvent, m Memento)) {
	h.listeners = append(h.listeners, fn)
}

func (h *HistoryStack) emit(e HistoryEvent, m Memento) {
	for _, fn := range h.listeners {
		fn(e, m)
	}
}

// PushNewMemento records a completed edit. The redo list is released and
// emptied: redo is only valid right after an undo.
func (h *HistoryStack) PushNewMemento(m Memento) error {
	if h.executing {
		return fmt.Errorf("push %q: %w", m.Info().Name, ErrReentrantStep)
	}
	releaseAll(h.redo)
	h.redo = nil
	h.undo = append(h.undo, m)

	if h.maxEntries > 0 && len(h.undo) > h.maxEntries {
		n := len(h.undo) - h.maxEntries
		releaseAll(h.undo[:n])
		h.undo = append(h.undo[:0], h.undo[n:]...)
	}

	h.ws.logger().Debug("history: push", "name", m.Info().Name, "kind", m.Kind(), "depth", len(h.undo))
	h.emit(EventNewMemento, m)
	return nil
}

// StepBackward undoes the newest undo entry. It does nothing on an empty
// undo list.
func (h *HistoryStack) StepBackward() error {
	return h.step(&h.undo, &h.redo, EventSteppedBackward)
}

// StepForward redoes the most recently undone entry. It does nothing on an
// empty redo list.
func (h *HistoryStack) StepForward() error {
	return h.step(&h.redo, &h.undo, EventSteppedForward)
}

func (h *HistoryStack) step(src, dst *[]Memento, e HistoryEvent) error {
	if h.executing {
		return fmt.Errorf("%s: %w", e, ErrReentrantStep)
	}
	if len(*src) == 0 {
		return nil
	}
	m := (*src)[len(*src)-1]

	// Tool switches below may run Deactivate hooks; they must not push.
	h.executing = true
	if tool, ok := owningTool(m); ok {
		if h.ws.ToolName() != tool {
			if err := h.ws.SetTool(tool); err != nil {
				h.executing = false
				return fmt.Errorf("%s %q: %w", e, m.Info().Name, err)
			}
		}
	} else if m.Info().Series == uuid.Nil {
		// Series entries belong to a gesture of the active tool.
		h.ws.PushNullTool()
		defer h.ws.PopNullTool()
	}

	inv, err := m.PerformUndo(h.ws)
	h.executing = false
	if err != nil {
		h.ws.logger().Error("history: step failed", "event", e, "name", m.Info().Name, "err", err)
		return fmt.Errorf("%s %q: %w", e, m.Info().Name, err)
	}

	*src = (*src)[:len(*src)-1]
	m.Release()
	*dst = append(*dst, inv)

	h.ws.logger().Debug("history: step", "event", e, "name", inv.Info().Name, "kind", inv.Kind())
	h.emit(e, inv)
	if h.depth == 0 {
		h.ws.flushInvalidations()
	}
	return nil
}

// owningTool returns the tool whose context m restores, looking through
// compounds.
func owningTool(m Memento) (string, bool) {
	switch m.Kind() {
	case KindToolContext:
		return m.(*ToolContextMemento).Tool(), true
	case KindCompound:
		for _, c := range m.(*Compound).children {
			if tool, ok := owningTool(c); ok {
				return tool, true
			}
		}
	case KindNull, KindBitmap, KindSelection, KindMetaData, KindReplaceDocument, KindLayer:
	}
	return "", false
}

// BeginStepGroup starts batching step notifications. Groups nest; the
// batch is delivered when the outermost group ends.
func (h *HistoryStack) BeginStepGroup() {
	h.depth++
}

// EndStepGroup closes the innermost step group.
func (h *HistoryStack) EndStepGroup() {
	if h.depth == 0 {
		panic("ggdoc: EndStepGroup without BeginStepGroup")
	}
	h.depth--
	if h.depth == 0 {
		h.ws.flushInvalidations()
		h.emit(EventFinishedStepGroup, nil)
	}
}

// FlushStepGroup delivers the notifications accumulated so far without
// closing the group. Long scrubs call it periodically.
func (h *HistoryStack) FlushStepGroup() {
	h.ws.flushInvalidations()
}

// InStepGroup reports whether a step group is open.
func (h *HistoryStack) InStepGroup() bool { return h.depth > 0 }

// ClearAll releases every entry of both lists and empties them.
func (h *HistoryStack) ClearAll() {
	n := len(h.undo) + len(h.redo)
	releaseAll(h.undo)
	releaseAll(h.redo)
	h.undo, h.redo = nil, nil
	h.ws.logger().Info("history cleared", "entries", n)
	h.emit(EventFlushed, nil)
}

func releaseAll(ms []Memento) {
	for _, m := range ms {
		m.Release()
	}
}

// UndoStack returns a copy of the undo list, oldest first.
func (h *HistoryStack) UndoStack() []Memento {
	return append([]Memento(nil), h.undo...)
}

// RedoStack returns a copy of the redo list, most recently undone last.
func (h *HistoryStack) RedoStack() []Memento {
	return append([]Memento(nil), h.redo...)
}

// PeekUndo returns the entry StepBackward would undo.
func (h *HistoryStack) PeekUndo() (Memento, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the entry StepForward would redo.
func (h *HistoryStack) PeekRedo() (Memento, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	return h.redo[len(h.redo)-1], true
}

// CanUndo reports whether the undo list is non-empty.
func (h *HistoryStack) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo list is non-empty.
func (h *HistoryStack) CanRedo() bool { return len(h.redo) > 0 }

// IsExecuting reports whether a memento is being undone or redone.
func (h *HistoryStack) IsExecuting() bool { return h.executing }

// SeriesLen returns how many consecutive entries at the top of the undo
// list belong to series.
func (h *HistoryStack) SeriesLen(series uuid.UUID) int {
	if series == uuid.Nil {
		return 0
	}
	n := 0
	for i := len(h.undo) - 1; i >= 0 && h.undo[i].Info().Series == series; i-- {
		n++
	}
	return n
}

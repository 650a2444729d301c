// Package actions implements document-level edits on top of the ggdoc
// history engine: undo and redo scrubbing, resize, canvas size, layer
// import, selection fills and the layer/metadata commands.
//
// Every action either records exactly one history entry or, when it fails
// or is cancelled, leaves the document and history unchanged.
package actions

import (
	"fmt"
	"time"

	"github.com/gogpu/ggdoc"
)

// Undo steps backward unless the next entry is the sentinel marking the
// opened document at the bottom of the list.
func Undo(ws *ggdoc.Workspace) error {
	if !canRewind(ws.History()) {
		return nil
	}
	return ws.History().StepBackward()
}

// Redo steps forward.
func Redo(ws *ggdoc.Workspace) error {
	return ws.History().StepForward()
}

// Rewind undoes everything back to the opened document in one step group.
func Rewind(ws *ggdoc.Workspace) error {
	h := ws.History()
	return scrub(ws, "rewind", h.StepBackward, func() bool { return canRewind(h) })
}

// FastForward redoes every undone entry in one step group.
func FastForward(ws *ggdoc.Workspace) error {
	h := ws.History()
	return scrub(ws, "fast-forward", h.StepForward, h.CanRedo)
}

// canRewind reports whether the top undo entry may be stepped. A Null
// sentinel at the bottom of the list marks the opened document.
func canRewind(h *ggdoc.HistoryStack) bool {
	undo := h.UndoStack()
	switch len(undo) {
	case 0:
		return false
	case 1:
		return undo[0].Kind() != ggdoc.KindNull
	default:
		return true
	}
}

// scrub runs step until more reports false, flushing notifications every
// FlushInterval so the view keeps up with a long scrub.
func scrub(ws *ggdoc.Workspace, name string, step func() error, more func() bool) error {
	h := ws.History()
	h.BeginStepGroup()
	defer h.EndStepGroup()

	interval := ws.Config().FlushInterval
	last := time.Now()
	steps := 0
	for more() {
		if err := step(); err != nil {
			return fmt.Errorf("%s after %d steps: %w", name, steps, err)
		}
		steps++
		if time.Since(last) >= interval {
			h.FlushStepGroup()
			last = time.Now()
		}
	}
	ws.Logger().Info("actions: scrub finished", "action", name, "steps", steps)
	return nil
}

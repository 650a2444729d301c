// Package ggdoc provides a layered raster document model with a
// transactional undo/redo engine.
//
// # Overview
//
// ggdoc keeps an open Document (ordered layers of RGBA pixels, metadata and
// a selection) inside a Workspace, and records every edit as a Memento on a
// HistoryStack. Edits capture only the pixels they touch, multi-step
// operations roll back on partial failure, and interactive previews are
// drawn and erased repeatedly before one entry is committed.
//
// # Quick Start
//
//	import "github.com/gogpu/ggdoc"
//
//	doc, _ := ggdoc.NewDocument(640, 480)
//	doc.AddLayer("Background")
//	ws := ggdoc.NewWorkspace(doc)
//	defer ws.Close()
//
//	// Capture before mutating, then commit the touched pixels
//	c, _ := ws.BeginCapture("fill")
//	r := image.Rect(10, 10, 100, 100)
//	c.SaveRegion(ggdoc.Region{}, r)
//	c.Surface().FillRect(r, ggdoc.Red)
//	patch := c.Commit("Fill", "")
//	_ = c.Close()
//	_ = ws.History().PushNewMemento(patch)
//
//	_ = ws.History().StepBackward() // undo
//	_ = ws.History().StepForward()  // redo
//
// # Mementos
//
// Every memento variant is identified by a Kind: Null (sentinel),
// BitmapPatch, SelectionPatch, MetaDataPatch, ReplaceDocument, LayerMemento,
// Compound and ToolContextMemento. PerformUndo returns the inverse memento;
// undo followed by redo restores bit-identical state.
//
// Large payloads, such as pixels lifted by a move, live in a Locker and
// are cited by key, so repeated snapshots of a tool's state share them.
//
// # Errors
//
// Errors matching ErrInvariant (a stale layer index, a tool context undone
// under the wrong tool) are programming errors; the memento stays on its
// list and the caller should treat the session as corrupt.
//
// # Coordinate System
//
// Document coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Layers[0] is the bottom layer
//
// # Concurrency
//
// A Workspace and its HistoryStack belong to one goroutine. Pixel work may
// fan out to the workspace worker pool, but every call joins the pool
// before returning.
package ggdoc

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)

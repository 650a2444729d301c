package ggdoc

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/gogpu/ggdoc/internal/parallel"
	"github.com/gogpu/ggdoc/internal/surfacepool"
)

// Tool is an interactive editing tool. Only one tool is active at a time.
type Tool interface {
	Name() string
	Activate(ws *Workspace)
	Deactivate(ws *Workspace)

	// DocumentReplaced discards geometry and caches that refer to the
	// previous document.
	DocumentReplaced(ws *Workspace)
}

// ToolFactory creates a fresh tool instance on activation.
type ToolFactory func() Tool

// NullToolName is the name reported while no tool is active.
const NullToolName = ""

type nullTool struct{}

func (nullTool) Name() string                { return NullToolName }
func (nullTool) Activate(*Workspace)         {}
func (nullTool) Deactivate(*Workspace)       {}
func (nullTool) DocumentReplaced(*Workspace) {}

// Workspace owns an open document and everything the history engine
// borrows from it: the active layer, the selection, the active tool, the
// scratch surface and the change notifications.
//
// A Workspace is not safe for concurrent use. All methods, and all history
// operations, run on one goroutine.
type Workspace struct {
	doc         *Document
	activeLayer int
	sel         *Selection

	history *HistoryStack
	locker  *Locker
	cfg     *Config
	log     *slog.Logger
	pool    *parallel.WorkerPool

	scratchPool *surfacepool.Pool
	scratch     *Pixmap
	scratchTag  string
	borrowed    bool

	staleScratch bool

	factories map[string]ToolFactory
	tool      Tool
	suspended []string

	onDocumentReplaced []func(prev, next *Document)
	onInvalidate       []func(layer int, r Region)
	onLayersChanged    []func(LayerChange)
	onSelectionChanged []func()

	pending map[int]Region
}

// NewWorkspace opens doc for editing.
func NewWorkspace(doc *Document, opts ...WorkspaceOption) *Workspace {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = DefaultConfig()
	}
	if o.locker == nil {
		o.locker = DefaultLocker
	}
	workers := o.config.Workers
	if o.workers > 0 {
		workers = o.workers
	}

	ws := &Workspace{
		doc:         doc,
		sel:         NewSelection(),
		locker:      o.locker,
		cfg:         o.config,
		log:         o.logger,
		pool:        parallel.NewWorkerPool(workers),
		scratchPool: surfacepool.New(2),
		factories:   make(map[string]ToolFactory),
		tool:        nullTool{},
		pending:     make(map[int]Region),
	}
	ws.history = newHistoryStack(ws, o.config.MaxEntries)
	ws.scratch = ws.newScratch()
	return ws
}

// Close deactivates the tool, clears history and stops the worker pool.
func (ws *Workspace) Close() {
	ws.tool.Deactivate(ws)
	ws.tool = nullTool{}
	ws.history.ClearAll()
	ws.pool.Close()
}

func (ws *Workspace) logger() *slog.Logger {
	if ws.log != nil {
		return ws.log
	}
	return Logger()
}

// Logger returns the logger the workspace reports through.
func (ws *Workspace) Logger() *slog.Logger { return ws.logger() }

// Document returns the live document.
func (ws *Workspace) Document() *Document { return ws.doc }

// History returns the undo/redo stack.
func (ws *Workspace) History() *HistoryStack { return ws.history }

// Locker returns the payload registry used by this workspace.
func (ws *Workspace) Locker() *Locker { return ws.locker }

// Config returns the history tunables.
func (ws *Workspace) Config() *Config { return ws.cfg }

// Selection returns the live selection.
func (ws *Workspace) Selection() *Selection { return ws.sel }

// Pool returns the worker pool used for pixel work.
func (ws *Workspace) Pool() *parallel.WorkerPool { return ws.pool }

// ActiveLayer returns the index of the layer tools draw on.
func (ws *Workspace) ActiveLayer() int { return ws.activeLayer }

// SetActiveLayer selects the layer tools draw on.
func (ws *Workspace) SetActiveLayer(i int) error {
	if i < 0 || i >= ws.doc.LayerCount() {
		return staleLayer("set active layer", i, ws.doc.LayerCount())
	}
	ws.activeLayer = i
	return nil
}

// ActiveLayerSurface returns the pixels of the active layer.
func (ws *Workspace) ActiveLayerSurface() (*Pixmap, error) {
	l, ok := ws.doc.Layer(ws.activeLayer)
	if !ok {
		return nil, ErrNoActiveLayer
	}
	return l.Surface, nil
}

// layerRemoved keeps the active layer index in range after a removal.
func (ws *Workspace) layerRemoved(index int) {
	if ws.activeLayer > index || ws.activeLayer >= ws.doc.LayerCount() {
		ws.activeLayer = max(ws.activeLayer-1, 0)
	}
}

// SetDocument replaces the live document. The selection is reset, the
// active tool drops its state and the scratch surface is re-sized before
// listeners are told. A borrowed scratch surface is re-sized when it is
// returned.
func (ws *Workspace) SetDocument(doc *Document) {
	old := ws.doc
	ws.doc = doc
	ws.sel.Reset()
	ws.activeLayer = min(ws.activeLayer, max(doc.LayerCount()-1, 0))
	clear(ws.pending)

	// The tool may still hold a capture on the old scratch surface.
	ws.tool.DocumentReplaced(ws)

	if old == nil || old.Width() != doc.Width() || old.Height() != doc.Height() {
		if ws.borrowed {
			ws.staleScratch = true
		} else {
			ws.resizeScratch()
		}
	}

	ws.logger().Info("document replaced",
		"width", doc.Width(), "height", doc.Height(), "layers", doc.LayerCount())
	for _, fn := range ws.onDocumentReplaced {
		fn(old, doc)
	}
	ws.NotifySelectionChanged()
}

func (ws *Workspace) resizeScratch() {
	ws.scratchPool.Put(ws.scratch.Width(), ws.scratch.Height(), ws.scratch.Data())
	ws.scratch = ws.newScratch()
	ws.staleScratch = false
}

func (ws *Workspace) newScratch() *Pixmap {
	w, h := ws.doc.Width(), ws.doc.Height()
	return newPixmapFrom(w, h, ws.scratchPool.Get(w, h))
}

// BorrowScratchSurface checks out the document-sized scratch surface. tag
// names the borrower; a second borrow before the return fails with
// ErrScratchBorrowed.
func (ws *Workspace) BorrowScratchSurface(tag string) (*Pixmap, error) {
	if ws.borrowed {
		return nil, fmt.Errorf("borrow by %q while held by %q: %w", tag, ws.scratchTag, ErrScratchBorrowed)
	}
	ws.borrowed = true
	ws.scratchTag = tag
	ws.logger().Debug("scratch borrowed", "tag", tag)
	return ws.scratch, nil
}

// ReturnScratchSurface gives back a surface obtained from
// BorrowScratchSurface.
func (ws *Workspace) ReturnScratchSurface(p *Pixmap) error {
	if !ws.borrowed {
		return ErrScratchNotBorrowed
	}
	if p != ws.scratch {
		return fmt.Errorf("return by %q: %w", ws.scratchTag, ErrScratchMismatch)
	}
	ws.logger().Debug("scratch returned", "tag", ws.scratchTag)
	ws.borrowed = false
	ws.scratchTag = ""
	if ws.staleScratch {
		ws.resizeScratch()
	}
	return nil
}

// ScratchBorrower returns the tag of the current borrower, "" when free.
func (ws *Workspace) ScratchBorrower() string { return ws.scratchTag }

// RegisterTool makes a tool available to SetTool.
func (ws *Workspace) RegisterTool(name string, f ToolFactory) {
	ws.factories[name] = f
}

// SetTool deactivates the current tool and activates a new instance of the
// named one. Setting NullToolName deactivates without replacement.
func (ws *Workspace) SetTool(name string) error {
	var next Tool = nullTool{}
	if name != NullToolName {
		f, ok := ws.factories[name]
		if !ok {
			return fmt.Errorf("set tool %q: %w", name, ErrUnknownTool)
		}
		next = f()
	}
	ws.tool.Deactivate(ws)
	ws.tool = next
	next.Activate(ws)
	ws.logger().Debug("tool activated", "tool", name)
	return nil
}

// ActiveTool returns the active tool; never nil.
func (ws *Workspace) ActiveTool() Tool { return ws.tool }

// ToolName returns the name of the active tool.
func (ws *Workspace) ToolName() string { return ws.tool.Name() }

// PushNullTool deactivates the active tool and leaves the null tool in its
// place. The tool's name is kept for PopNullTool.
func (ws *Workspace) PushNullTool() {
	name := ws.tool.Name()
	ws.tool.Deactivate(ws)
	ws.tool = nullTool{}
	ws.suspended = append(ws.suspended, name)
}

// PopNullTool activates a new instance of the tool deactivated by the
// matching PushNullTool. Unbalanced calls are ignored.
func (ws *Workspace) PopNullTool() {
	n := len(ws.suspended)
	if n == 0 {
		return
	}
	name := ws.suspended[n-1]
	ws.suspended = ws.suspended[:n-1]
	if err := ws.SetTool(name); err != nil {
		ws.logger().Warn("tool not restored", "tool", name, "err", err)
	}
}

// OnDocumentReplaced registers fn to run after every document swap,
// including swaps made by undo and redo.
func (ws *Workspace) OnDocumentReplaced(fn func(prev, next *Document)) {
	ws.onDocumentReplaced = append(ws.onDocumentReplaced, fn)
}

// OnInvalidate registers fn to receive changed areas. layer is -1 when the
// whole composite changed.
func (ws *Workspace) OnInvalidate(fn func(layer int, r Region)) {
	ws.onInvalidate = append(ws.onInvalidate, fn)
}

// OnLayersChanged registers fn for structural edits of the layer list.
func (ws *Workspace) OnLayersChanged(fn func(LayerChange)) {
	ws.onLayersChanged = append(ws.onLayersChanged, fn)
}

// OnSelectionChanged registers fn to run after the selection is replaced.
func (ws *Workspace) OnSelectionChanged(fn func()) {
	ws.onSelectionChanged = append(ws.onSelectionChanged, fn)
}

// Invalidate reports that r changed on layer. Inside a history step group
// the areas are accumulated per layer and delivered when the group ends.
func (ws *Workspace) Invalidate(layer int, r Region) {
	if r.IsEmpty() {
		return
	}
	if ws.history != nil && ws.history.InStepGroup() {
		ws.pending[layer] = ws.pending[layer].Union(r)
		return
	}
	for _, fn := range ws.onInvalidate {
		fn(layer, r)
	}
}

// InvalidateAll reports that the whole composite changed.
func (ws *Workspace) InvalidateAll() {
	ws.Invalidate(-1, NewRegion(ws.doc.Bounds()))
}

// flushInvalidations delivers the areas accumulated during a step group,
// simplified, one call per layer in index order.
func (ws *Workspace) flushInvalidations() {
	if len(ws.pending) == 0 {
		return
	}
	layers := make([]int, 0, len(ws.pending))
	for l := range ws.pending {
		layers = append(layers, l)
	}
	sort.Ints(layers)
	bounds := ws.doc.Bounds()
	for _, l := range layers {
		r := ws.pending[l].Simplify(0, ws.cfg.MaxRects, bounds)
		delete(ws.pending, l)
		for _, fn := range ws.onInvalidate {
			fn(l, r)
		}
	}
}

// NotifySelectionChanged runs the OnSelectionChanged listeners. Call it after
// editing the selection directly.
func (ws *Workspace) NotifySelectionChanged() {
	for _, fn := range ws.onSelectionChanged {
		fn()
	}
}

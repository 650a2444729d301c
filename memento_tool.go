package ggdoc

import (
	"fmt"

	"github.com/google/uuid"
)

// ToolContext is the private interaction state of a transforming tool. It is
// a plain value: matrices are coefficients, paths are point lists, and the
// lifted pixels are cited by Locker key only.
type ToolContext struct {
	Lifted bool
	Series uuid.UUID

	BaseTransform  Matrix
	LiftTransform  Matrix
	DeltaTransform Matrix

	LiftedBounds Rect
	StartBounds  Rect
	StartAngle   float64
	StartPath    []Polygon

	Mode       int
	StartEdge  int
	StartPoint Point
	Offset     Point

	// Payload is the Locker key of the lifted *MaskedSurface, uuid.Nil when
	// nothing is lifted.
	Payload uuid.UUID

	// Backdrop is the Locker key of the layer pixels under the lifted area,
	// as a *Pixmap.
	Backdrop uuid.UUID
}

// NewToolContext returns an idle context.
func NewToolContext() *ToolContext {
	return &ToolContext{
		BaseTransform:  Identity(),
		LiftTransform:  Identity(),
		DeltaTransform: Identity(),
	}
}

// Clone returns an independent copy. Payloads are shared by key; callers
// that keep the clone must hold their own Locker references.
func (c *ToolContext) Clone() *ToolContext {
	out := *c
	out.StartPath = clonePolygons(c.StartPath)
	return &out
}

// Keys returns the Locker keys the context cites.
func (c *ToolContext) Keys() []uuid.UUID {
	var keys []uuid.UUID
	for _, k := range [...]uuid.UUID{c.Payload, c.Backdrop} {
		if k != uuid.Nil {
			keys = append(keys, k)
		}
	}
	return keys
}

// ContextTool is a Tool whose interaction state can be swapped by history.
type ContextTool interface {
	Tool

	// SwapContext installs ctx as the live context and returns the previous
	// one. Locker references travel with the contexts.
	SwapContext(ctx *ToolContext) *ToolContext
}

// ToolContextMemento restores the interaction state of the tool that pushed
// it. Undoing it while another tool is active is an invariant violation.
type ToolContextMemento struct {
	base
	tool   string
	layer  int
	ctx    *ToolContext
	locker *Locker
}

// NewToolContextMemento records ctx as the state to restore for tool. The
// memento owns ctx and takes new references to its payloads in l, so pass a
// clone of a context that stays live.
func NewToolContextMemento(name, icon, tool string, layer int, ctx *ToolContext, l *Locker) *ToolContextMemento {
	for _, k := range ctx.Keys() {
		l.Retain(k)
	}
	m := &ToolContextMemento{base: base{newInfo(name, icon)}, tool: tool, layer: layer, ctx: ctx, locker: l}
	m.info.Series = ctx.Series
	return m
}

func (*ToolContextMemento) Kind() Kind { return KindToolContext }

// Tool returns the name of the owning tool.
func (m *ToolContextMemento) Tool() string { return m.tool }

// Context returns the held context. It must not be modified.
func (m *ToolContextMemento) Context() *ToolContext { return m.ctx }

func (m *ToolContextMemento) PerformUndo(ws *Workspace) (Memento, error) {
	if ws.ToolName() != m.tool {
		return nil, fmt.Errorf("undo %q: owned by %q, active %q: %w",
			m.info.Name, m.tool, ws.ToolName(), ErrToolMismatch)
	}
	ct, ok := ws.ActiveTool().(ContextTool)
	if !ok {
		return nil, fmt.Errorf("undo %q: tool %q keeps no context: %w", m.info.Name, m.tool, ErrToolMismatch)
	}
	prev := ct.SwapContext(m.ctx)
	m.ctx = nil
	return &ToolContextMemento{base: base{m.info}, tool: m.tool, layer: m.layer, ctx: prev, locker: m.locker}, nil
}

func (m *ToolContextMemento) Release() {
	if m.ctx != nil {
		for _, k := range m.ctx.Keys() {
			m.locker.Release(k)
		}
	}
	m.ctx = nil
}

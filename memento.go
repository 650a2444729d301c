package ggdoc

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Kind identifies a memento variant. Code that needs the concrete variant
// switches on Kind rather than probing types.
type Kind uint8

const (
	// KindNull is the sentinel: undoing it changes nothing.
	KindNull Kind = iota
	KindBitmap
	KindSelection
	KindMetaData
	KindReplaceDocument
	KindLayer
	KindCompound
	KindToolContext
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBitmap:
		return "Bitmap"
	case KindSelection:
		return "Selection"
	case KindMetaData:
		return "MetaData"
	case KindReplaceDocument:
		return "ReplaceDocument"
	case KindLayer:
		return "Layer"
	case KindCompound:
		return "Compound"
	case KindToolContext:
		return "ToolContext"
	default:
		return "Unknown"
	}
}

// Info is the display metadata of a memento.
type Info struct {
	Name string
	Icon string

	// ID is shared by a memento and every inverse derived from it.
	ID uint64

	// Series groups mementos pushed by one interactive gesture. Zero when
	// the memento is not part of a series.
	Series uuid.UUID
}

var mementoSeq atomic.Uint64

func newInfo(name, icon string) Info {
	return Info{Name: name, Icon: icon, ID: mementoSeq.Add(1)}
}

// Memento is one reversible edit.
//
// PerformUndo reverts the edit on ws and returns the inverse memento, which
// carries the same Info. Undo followed by undo of the inverse restores
// bit-identical state. On error the document is left as it was and the
// receiver remains usable.
//
// Release frees whatever the memento still owns: patch buffers and locker
// references. It is called when the memento leaves history for good, and on
// the consumed side of a step after its resources moved to the inverse.
type Memento interface {
	Kind() Kind
	Info() *Info
	PerformUndo(ws *Workspace) (Memento, error)
	Release()
}

// base carries the Info shared by every variant.
type base struct {
	info Info
}

func (b *base) Info() *Info { return &b.info }

// Null is the sentinel memento.
type Null struct {
	base
}

// NewNull returns a sentinel entry with display metadata only.
func NewNull(name, icon string) *Null {
	return &Null{base{newInfo(name, icon)}}
}

func (*Null) Kind() Kind { return KindNull }

func (n *Null) PerformUndo(*Workspace) (Memento, error) {
	return &Null{base{n.info}}, nil
}

func (*Null) Release() {}

// NewSeries returns a fresh series id for a gesture's mementos.
func NewSeries() uuid.UUID {
	return uuid.New()
}

// SetSeries tags m, and every child of a Compound, with series.
func SetSeries(m Memento, series uuid.UUID) {
	m.Info().Series = series
	if m.Kind() == KindCompound {
		for _, c := range m.(*Compound).children {
			SetSeries(c, series)
		}
	}
}

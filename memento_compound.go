package ggdoc

import (
	"errors"
	"fmt"
)

// Compound is an ordered list of mementos undone and redone as one entry.
//
// A Compound may be pushed empty, as a sentinel for a gesture whose outcome
// is not known yet, and filled with Append once the gesture completes. An
// empty Compound undoes to another empty Compound.
type Compound struct {
	base
	children []Memento
}

// NewCompound builds a compound of children. Nil children are dropped.
func NewCompound(name, icon string, children ...Memento) *Compound {
	c := &Compound{base: base{newInfo(name, icon)}}
	for _, m := range children {
		c.Append(m)
	}
	return c
}

func (*Compound) Kind() Kind { return KindCompound }

// Append adds m as the last child. Nil is ignored.
func (c *Compound) Append(m Memento) {
	if m == nil {
		return
	}
	c.children = append(c.children, m)
}

// Len returns the number of children.
func (c *Compound) Len() int { return len(c.children) }

// Children returns a copy of the child list.
func (c *Compound) Children() []Memento {
	return append([]Memento(nil), c.children...)
}

// PerformUndo undoes the children last to first. The inverses are kept in
// the order they were produced, so undoing the result replays the children
// first to last.
//
// If a child fails, the children already undone are redone, the compound is
// left intact and the error is returned.
func (c *Compound) PerformUndo(ws *Workspace) (Memento, error) {
	inverses := make([]Memento, 0, len(c.children))
	for i := len(c.children) - 1; i >= 0; i-- {
		inv, err := c.children[i].PerformUndo(ws)
		if err != nil {
			err = fmt.Errorf("undo %q child %d: %w", c.info.Name, i, err)
			if rerr := c.reapply(ws, inverses, i+1); rerr != nil {
				return nil, errors.Join(err, rerr)
			}
			return nil, err
		}
		inverses = append(inverses, inv)
	}

	for _, m := range c.children {
		m.Release()
	}
	c.children = nil
	return &Compound{base: base{c.info}, children: inverses}, nil
}

// reapply redoes the inverses produced so far, in reverse, and puts the
// results back as children first..len-1.
func (c *Compound) reapply(ws *Workspace, inverses []Memento, first int) error {
	for k := len(inverses) - 1; k >= 0; k-- {
		idx := first + (len(inverses) - 1 - k)
		m, err := inverses[k].PerformUndo(ws)
		if err != nil {
			return fmt.Errorf("reapply %q child %d: %w", c.info.Name, idx, err)
		}
		c.children[idx].Release()
		inverses[k].Release()
		c.children[idx] = m
	}
	return nil
}

func (c *Compound) Release() {
	for _, m := range c.children {
		m.Release()
	}
	c.children = nil
}

// CompoundBuilder applies the steps of a multi-step operation and keeps the
// document all-or-nothing: when a step fails, every step already applied is
// undone in reverse order before the error is returned.
type CompoundBuilder struct {
	ws      *Workspace
	applied []Memento
}

// NewCompoundBuilder starts an operation on ws.
func NewCompoundBuilder(ws *Workspace) *CompoundBuilder {
	return &CompoundBuilder{ws: ws}
}

// Apply runs step. step must perform its mutation and return the memento
// that reverts it, or leave the document untouched and return an error. A nil
// memento with a nil error records nothing.
func (b *CompoundBuilder) Apply(step func() (Memento, error)) error {
	m, err := step()
	if err != nil {
		err = fmt.Errorf("step %d: %w", len(b.applied)+1, err)
		if rerr := b.rollback(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	if m != nil {
		b.applied = append(b.applied, m)
	}
	return nil
}

// Len returns the number of recorded steps.
func (b *CompoundBuilder) Len() int { return len(b.applied) }

// Finish returns the applied steps as one Compound. The builder is reset.
func (b *CompoundBuilder) Finish(name, icon string) *Compound {
	c := NewCompound(name, icon, b.applied...)
	b.applied = nil
	return c
}

// Abort undoes every applied step.
func (b *CompoundBuilder) Abort() error {
	return b.rollback()
}

func (b *CompoundBuilder) rollback() error {
	if len(b.applied) > 0 {
		b.ws.logger().Warn("compound: rolling back", "steps", len(b.applied))
	}
	for i := len(b.applied) - 1; i >= 0; i-- {
		inv, err := b.applied[i].PerformUndo(b.ws)
		if err != nil {
			b.applied = b.applied[:i+1]
			return fmt.Errorf("rollback step %d: %w", i+1, err)
		}
		inv.Release()
		b.applied[i].Release()
	}
	b.applied = nil
	return nil
}

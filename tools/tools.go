// Package tools provides interactive editing tools that record their
// gestures in the ggdoc history: a rectangle painter, a rectangle selector
// and a move tool that lifts and transforms selected pixels.
//
// Tools receive pointer events in document coordinates from the host
// application. They are created through factories registered with Register
// so that history can re-activate the tool that owns a memento.
package tools

import (
	"time"

	"github.com/gogpu/ggdoc"
)

// Tool names as registered with a workspace.
const (
	RectangleName  = "Rectangle"
	SelectRectName = "Rectangle Select"
	MoveName       = "Move Selection"
)

// Register makes every tool of this package available to ws.SetTool.
func Register(ws *ggdoc.Workspace) {
	ws.RegisterTool(RectangleName, func() ggdoc.Tool { return NewRectangleTool(ggdoc.Black) })
	ws.RegisterTool(SelectRectName, func() ggdoc.Tool { return NewSelectRectTool() })
	ws.RegisterTool(MoveName, func() ggdoc.Tool { return NewMoveTool() })
}

// clock is time.Now, replaceable by tests.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

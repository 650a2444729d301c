package ggdoc

// SelectionPatch restores a selection snapshot.
type SelectionPatch struct {
	base
	data SelectionData
}

// NewSelectionPatch holds a copy of before, the selection as it was prior to
// the edit.
func NewSelectionPatch(name, icon string, before SelectionData) *SelectionPatch {
	return &SelectionPatch{base: base{newInfo(name, icon)}, data: before.Clone()}
}

func (*SelectionPatch) Kind() Kind { return KindSelection }

func (p *SelectionPatch) PerformUndo(ws *Workspace) (Memento, error) {
	sel := ws.Selection()
	inv := &SelectionPatch{base: base{p.info}, data: sel.Snapshot()}
	sel.Restore(p.data)
	ws.NotifySelectionChanged()
	return inv, nil
}

func (p *SelectionPatch) Release() {
	p.data = SelectionData{}
}

// MetaDataPatch restores document metadata.
type MetaDataPatch struct {
	base
	data MetaData
}

// NewMetaDataPatch holds a deep copy of before.
func NewMetaDataPatch(name, icon string, before MetaData) *MetaDataPatch {
	return &MetaDataPatch{base: base{newInfo(name, icon)}, data: before.Clone()}
}

func (*MetaDataPatch) Kind() Kind { return KindMetaData }

func (p *MetaDataPatch) PerformUndo(ws *Workspace) (Memento, error) {
	doc := ws.Document()
	inv := &MetaDataPatch{base: base{p.info}, data: doc.MetaData}
	doc.MetaData = p.data
	p.data = MetaData{}
	doc.SetDirty()
	return inv, nil
}

func (p *MetaDataPatch) Release() {
	p.data = MetaData{}
}

// ReplaceDocument swaps the whole document. It expresses geometry changes
// that invalidate every layer, such as resizing.
type ReplaceDocument struct {
	base
	doc *Document
}

// NewReplaceDocument holds the document that was replaced.
func NewReplaceDocument(name, icon string, old *Document) *ReplaceDocument {
	return &ReplaceDocument{base: base{newInfo(name, icon)}, doc: old}
}

func (*ReplaceDocument) Kind() Kind { return KindReplaceDocument }

// Document returns the held document.
func (p *ReplaceDocument) Document() *Document { return p.doc }

func (p *ReplaceDocument) PerformUndo(ws *Workspace) (Memento, error) {
	cur := ws.Document()
	ws.SetDocument(p.doc)
	p.doc = nil
	return &ReplaceDocument{base: base{p.info}, doc: cur}, nil
}

func (p *ReplaceDocument) Release() {
	p.doc = nil
}

package viewer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gridview/diagram"
	"gridview/edges"
	"gridview/params"
	"gridview/svgdoc"
)

const hoverDebounceDelay = 250 * time.Millisecond

// bendHandleRef maps a rendered bend handle element back to its semantic
// position: the owning edge and the list index of its point. Handles are
// addressed by generated ids while their position is a list index that shifts
// under insertion and removal; this map keeps the two schemes synchronized.
type bendHandleRef struct {
	EdgeID string
	Index  int
}

// Viewer binds one SVG document to its metadata and drives all interaction.
// Every operation recomputes and repatches before returning, so no caller can
// observe a partially updated state. mu serializes the embedder's calls with
// the debounce timer goroutines: it is held for every document or metadata
// access, on both sides.
type Viewer struct {
	mu   sync.Mutex
	doc  *svgdoc.Document
	meta *diagram.Metadata
	cfg  Config
	log  *slog.Logger

	svgParams    params.SvgParameters
	layoutParams params.LayoutParameters
	engine       *edges.Engine

	state       InteractionState
	bendMode    bool
	bendHandles map[string]bendHandleRef

	// snapshot holds drag-start rendered geometry; non-nil only while a drag
	// derives geometry from a prior document snapshot.
	snapshot *snapshotReader

	hover           hoverTracker
	viewBox         diagram.ViewBox
	viewBoxDebounce *debouncer
	lodClass        string
	textPruned      bool

	panZoomSuspended bool
}

// New parses the SVG markup and the optional metadata document and returns a
// ready viewer. A missing metadata document yields a static viewer: rendering
// works, every interaction is disabled. A malformed SVG aborts initialization
// instead of failing later inside event handlers.
func New(svg string, metadataJSON []byte, cfg Config) (*Viewer, error) {
	doc, err := svgdoc.Parse(svg)
	if err != nil {
		return nil, fmt.Errorf("initialize viewer: %w", err)
	}

	v := &Viewer{
		doc:             doc,
		cfg:             cfg,
		log:             cfg.logger(),
		state:           Idle{},
		bendHandles:     make(map[string]bendHandleRef),
		viewBoxDebounce: newDebouncer(hoverDebounceDelay),
	}
	v.hover = hoverTracker{v: v, debounce: newDebouncer(hoverDebounceDelay)}

	if len(metadataJSON) > 0 {
		meta, err := diagram.Parse(metadataJSON)
		if err != nil {
			return nil, err
		}
		v.meta = meta
		v.svgParams = params.NewSvgParameters(meta.SvgParameters)
		v.layoutParams = params.NewLayoutParameters(meta.LayoutParameters)
		v.engine = &edges.Engine{Meta: meta, Params: v.svgParams, Paths: doc, Log: v.log}
	}

	switch {
	case cfg.InitialViewBox != nil:
		v.applyViewBox(*cfg.InitialViewBox)
	case doc.HasViewBox:
		v.applyViewBox(doc.ViewBox)
	case v.meta != nil:
		v.applyViewBox(diagram.ComputeViewBox(v.meta, v.layoutParams))
	}
	return v, nil
}

// Metadata returns the live metadata document, nil for a static viewer.
func (v *Viewer) Metadata() *diagram.Metadata {
	return v.meta
}

// Document returns the live SVG document model.
func (v *Viewer) Document() *svgdoc.Document {
	return v.doc
}

// Interactive reports whether a metadata document is attached.
func (v *Viewer) Interactive() bool {
	return v.meta != nil
}

// State returns the current interaction state variant.
func (v *Viewer) State() InteractionState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// PanZoomSuspended reports whether the embedder should hold pan/zoom while a
// drag or straighten gesture is in progress.
func (v *Viewer) PanZoomSuspended() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.panZoomSuspended
}

// ViewBox returns the current view box.
func (v *Viewer) ViewBox() diagram.ViewBox {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewBox
}

// ApplyViewBox sets the view box immediately, bypassing the pan/zoom
// debounce.
func (v *Viewer) ApplyViewBox(vb diagram.ViewBox) {
	v.viewBoxDebounce.Cancel()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyViewBox(vb)
}

// SvgParameters returns the resolved rendering parameters.
func (v *Viewer) SvgParameters() params.SvgParameters {
	return v.svgParams
}

// LayoutParameters returns the resolved layout parameters.
func (v *Viewer) LayoutParameters() params.LayoutParameters {
	return v.layoutParams
}

// ClampedSize returns the viewer size: document dimensions clamped to the
// configured min/max bounds.
func (v *Viewer) ClampedSize() (width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	width, height = v.doc.Width, v.doc.Height
	if !v.doc.HasSize {
		width, height = v.viewBox.Width, v.viewBox.Height
	}
	if v.cfg.MinWidth > 0 && width < v.cfg.MinWidth {
		width = v.cfg.MinWidth
	}
	if v.cfg.MaxWidth > 0 && width > v.cfg.MaxWidth {
		width = v.cfg.MaxWidth
	}
	if v.cfg.MinHeight > 0 && height < v.cfg.MinHeight {
		height = v.cfg.MinHeight
	}
	if v.cfg.MaxHeight > 0 && height > v.cfg.MaxHeight {
		height = v.cfg.MaxHeight
	}
	return width, height
}

// SVG serializes the live document. A non-empty style is inlined as a CDATA
// <style> block at the top of the document.
func (v *Viewer) SVG(style string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if style != "" {
		styleEl := v.doc.Root.InsertChildFirst("style")
		styleEl.Text = style
		styleEl.CData = true
		out := v.doc.String()
		styleEl.Remove()
		return out
	}
	return v.doc.String()
}

// MetadataJSON dumps the live metadata document, indented. A static viewer
// returns nil.
func (v *Viewer) MetadataJSON() ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil {
		return nil, nil
	}
	return v.meta.JSON()
}

// BendMode reports whether bend editing is active.
func (v *Viewer) BendMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bendMode
}

// SetBendMode toggles bend editing. Enabling it materializes a handle for
// every existing bend point of every bendable line; disabling removes the
// handle layer and its bookkeeping.
func (v *Viewer) SetBendMode(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil || v.bendMode == on {
		return
	}
	v.bendMode = on
	if on {
		for _, e := range v.meta.BendableLines() {
			for i := range e.BendingPoints {
				v.createBendHandle(e, i)
			}
		}
		return
	}
	v.removeBendHandleLayer()
}

// beginSnapshot captures the rendered geometry of the given elements and
// points the engine at the snapshot, so recomputation during the drag sees
// drag-start geometry rather than already-patched elements.
func (v *Viewer) beginSnapshot(svgIDs []string) {
	v.snapshot = newSnapshotReader(v.doc)
	for _, id := range svgIDs {
		v.snapshot.Capture(id)
	}
	v.engine.Paths = v.snapshot
}

// endSnapshot returns the engine to the live document.
func (v *Viewer) endSnapshot() {
	v.snapshot = nil
	v.engine.Paths = v.doc
}

package viewer

import (
	"sort"
	"strings"

	"gridview/diagram"
	"gridview/geometry"
)

// SetViewBox records the view box reported by the embedder's pan/zoom layer
// and schedules the level-of-detail and adaptive-text updates, debounced so a
// continuous zoom gesture settles into one update. The deferred update runs on
// the timer goroutine and takes the viewer lock before touching the document.
func (v *Viewer) SetViewBox(vb diagram.ViewBox) {
	v.mu.Lock()
	v.viewBox = vb
	v.mu.Unlock()
	v.viewBoxDebounce.Trigger(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.applyViewBox(vb)
	})
}

// applyViewBox writes the view box into the document and refreshes the
// zoom-dependent rendering state.
func (v *Viewer) applyViewBox(vb diagram.ViewBox) {
	v.viewBox = vb
	v.doc.Root.SetAttr("viewBox", formatViewBox(vb))
	v.doc.ViewBox = vb
	v.doc.HasViewBox = true
	if v.cfg.EnableLevelOfDetail {
		v.applyZoomLevelClass(vb)
	}
	if v.cfg.EnableAdaptiveTextZoom && v.meta != nil {
		v.applyAdaptiveText(vb)
	}
}

func formatViewBox(vb diagram.ViewBox) string {
	return strings.Join([]string{
		geometry.FormatCoord(vb.X),
		geometry.FormatCoord(vb.Y),
		geometry.FormatCoord(vb.Width),
		geometry.FormatCoord(vb.Height),
	}, " ")
}

// applyZoomLevelClass switches the root CSS class by the largest displayed
// dimension: thresholds are evaluated descending, first one at or below the
// dimension wins.
func (v *Viewer) applyZoomLevelClass(vb diagram.ViewBox) {
	levels := append([]ZoomLevel{}, v.cfg.ZoomLevels...)
	sort.Slice(levels, func(i, j int) bool { return levels[i].MinDimension > levels[j].MinDimension })
	dim := vb.MaxDimension()
	var class string
	for _, lvl := range levels {
		if dim >= lvl.MinDimension {
			class = lvl.Class
			break
		}
	}
	if class == v.lodClass {
		return
	}
	if v.lodClass != "" {
		v.doc.Root.RemoveClass(v.lodClass)
	}
	if class != "" {
		v.doc.Root.AddClass(class)
	}
	v.lodClass = class
}

// applyAdaptiveText hides legend boxes and their connections when the
// displayed area is too large for text to be readable, and restores them when
// zooming back in.
func (v *Viewer) applyAdaptiveText(vb diagram.ViewBox) {
	threshold := v.cfg.AdaptiveTextZoomThreshold
	if threshold <= 0 {
		return
	}
	prune := vb.MaxDimension() > threshold
	if prune == v.textPruned {
		return
	}
	v.textPruned = prune
	for _, t := range v.meta.TextNodes {
		for _, id := range []string{t.SvgID, t.SvgID + ".conn"} {
			el := v.doc.ElementByID(id)
			if el == nil {
				continue
			}
			if prune {
				el.SetAttr("display", "none")
			} else {
				el.RemoveAttr("display")
			}
		}
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"gridview/diagram"
	"gridview/viewer"
)

const inspectMoveStep = 10.0

func newInspectCmd() *cobra.Command {
	var (
		output      string
		outMetadata string
	)
	cmd := &cobra.Command{
		Use:   "inspect <diagram.svg>",
		Short: "Interactive terminal inspector: browse entities and move nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadViewer(args[0])
			if err != nil {
				return err
			}
			if !v.Interactive() {
				return fmt.Errorf("inspection needs a metadata document")
			}
			ins := &inspector{viewer: v, svgOut: output, metaOut: outMetadata}
			return ins.run()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG file written on 'w' (default: overwrite input)")
	cmd.Flags().StringVar(&outMetadata, "out-metadata", "", "metadata file written on 'w'")
	return cmd
}

// inspector is a small tcell application: a node list on the left, the
// selected node's buses and edges on the right, vim-style movement keys
// applying real geometry moves through the viewer.
type inspector struct {
	viewer   *viewer.Viewer
	selected int
	status   string
	svgOut   string
	metaOut  string
}

func (ins *inspector) run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	for {
		ins.draw(screen)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ins.handleKey(ev) {
				return nil
			}
		}
	}
}

func (ins *inspector) nodes() []*diagram.Node {
	return ins.viewer.Metadata().Nodes
}

func (ins *inspector) handleKey(ev *tcell.EventKey) (quit bool) {
	nodes := ins.nodes()
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyUp:
		if ins.selected > 0 {
			ins.selected--
		}
	case ev.Key() == tcell.KeyDown:
		if ins.selected < len(nodes)-1 {
			ins.selected++
		}
	case ev.Rune() == 'h':
		ins.moveSelected(-inspectMoveStep, 0)
	case ev.Rune() == 'l':
		ins.moveSelected(inspectMoveStep, 0)
	case ev.Rune() == 'k':
		ins.moveSelected(0, -inspectMoveStep)
	case ev.Rune() == 'j':
		ins.moveSelected(0, inspectMoveStep)
	case ev.Rune() == 'w':
		ins.save()
	}
	return false
}

func (ins *inspector) moveSelected(dx, dy float64) {
	nodes := ins.nodes()
	if ins.selected < 0 || ins.selected >= len(nodes) {
		return
	}
	n := nodes[ins.selected]
	ins.viewer.MoveNodeToCoordinates(n.EquipmentID, n.X+dx, n.Y+dy)
	ins.status = fmt.Sprintf("moved %s to (%g, %g)", n.EquipmentID, n.X, n.Y)
}

func (ins *inspector) save() {
	path := ins.svgOut
	if path == "" {
		ins.status = "no output path: run with -o"
		return
	}
	if err := os.WriteFile(path, []byte(ins.viewer.SVG("")), 0644); err != nil {
		ins.status = "save failed: " + err.Error()
		return
	}
	if ins.metaOut != "" {
		data, err := ins.viewer.MetadataJSON()
		if err == nil {
			err = os.WriteFile(ins.metaOut, data, 0644)
		}
		if err != nil {
			ins.status = "metadata save failed: " + err.Error()
			return
		}
	}
	ins.status = "saved " + path
}

func (ins *inspector) draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	plain := tcell.StyleDefault
	bold := plain.Bold(true)
	highlight := plain.Reverse(true)

	drawText(screen, 0, 0, bold, "gridview inspect  (arrows: select, hjkl: move node, w: save, q: quit)")

	m := ins.viewer.Metadata()
	listTop := 2
	for i, n := range m.Nodes {
		if listTop+i >= height-2 {
			break
		}
		style := plain
		if i == ins.selected {
			style = highlight
		}
		line := fmt.Sprintf("%-20s %-20s (%8.2f, %8.2f)", n.SvgID, n.EquipmentID, n.X, n.Y)
		drawText(screen, 0, listTop+i, style, line)
	}

	detailX := width / 2
	if ins.selected >= 0 && ins.selected < len(m.Nodes) && detailX > 40 {
		n := m.Nodes[ins.selected]
		row := listTop
		drawText(screen, detailX, row, bold, "buses")
		row++
		for _, b := range m.BusNodesOf(n.SvgID) {
			drawText(screen, detailX, row, plain,
				fmt.Sprintf("  %s index=%d neighbours=%d", b.EquipmentID, b.Index, b.NbNeighbours))
			row++
		}
		drawText(screen, detailX, row, bold, "edges")
		row++
		for _, e := range m.EdgesAt(n.SvgID) {
			drawText(screen, detailX, row, plain,
				fmt.Sprintf("  %s %s %s-%s", e.EquipmentID, e.Type, e.Node1, e.Node2))
			row++
			if row >= height-2 {
				break
			}
		}
	}

	vb := ins.viewer.ViewBox()
	footer := fmt.Sprintf("%d nodes, %d edges | view box %g %g %g %g | %s",
		len(m.Nodes), len(m.Edges), vb.X, vb.Y, vb.Width, vb.Height, ins.status)
	drawText(screen, 0, height-1, bold, footer)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

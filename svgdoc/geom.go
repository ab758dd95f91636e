package svgdoc

import (
	"strconv"
	"strings"

	"gridview/geometry"
)

// ParsePoints decodes a polyline/polygon points attribute.
func ParsePoints(s string) []geometry.Point {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\n' || r == '\t' })
	var points []geometry.Point
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			return nil
		}
		points = append(points, geometry.Point{X: x, Y: y})
	}
	return points
}

// FormatPoints encodes points for a polyline points attribute, coordinates
// rounded to two decimals.
func FormatPoints(points []geometry.Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(geometry.FormatCoord(p.X))
		b.WriteByte(',')
		b.WriteString(geometry.FormatCoord(p.Y))
	}
	return b.String()
}

// ParseTranslate extracts the offset of a "translate(x,y)" transform
// attribute. Any other transform content reports false.
func ParseTranslate(transform string) (dx, dy float64, ok bool) {
	s := strings.TrimSpace(transform)
	if !strings.HasPrefix(s, "translate(") || !strings.HasSuffix(s, ")") {
		return 0, 0, false
	}
	inner := s[len("translate(") : len(s)-1]
	fields := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, false
	}
	dx, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, false
	}
	if len(fields) == 2 {
		dy, err = strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, 0, false
		}
	}
	return dx, dy, true
}

// TranslateString formats a translate transform value.
func TranslateString(p geometry.Point) string {
	return "translate(" + geometry.FormatCoord(p.X) + "," + geometry.FormatCoord(p.Y) + ")"
}

// SetTranslate sets the element transform to a pure translation.
func (el *Element) SetTranslate(p geometry.Point) {
	el.SetAttr("transform", TranslateString(p))
}

// Translation returns the element's own translate offset, if any.
func (el *Element) Translation() (geometry.Point, bool) {
	dx, dy, ok := ParseTranslate(el.Attr("transform"))
	return geometry.Point{X: dx, Y: dy}, ok
}

// cumulativeTranslation sums the translate transforms of the element and its
// ancestors. Non-translate transforms are ignored.
func (el *Element) cumulativeTranslation() geometry.Point {
	var total geometry.Point
	for e := el; e != nil; e = e.parent {
		if t, ok := e.Translation(); ok {
			total = total.Add(t.X, t.Y)
		}
	}
	return total
}

// PathPoints returns the command endpoints of a path d attribute, absolute
// commands only. It recovers enough geometry to translate and re-anchor a
// rendered path; intermediate curve control points are skipped.
func PathPoints(d string) []geometry.Point {
	var points []geometry.Point
	for _, cmd := range splitPathCommands(d) {
		coords := parseFloats(cmd.args)
		switch cmd.op {
		case 'M', 'L', 'T':
			for i := 0; i+1 < len(coords); i += 2 {
				points = append(points, geometry.Point{X: coords[i], Y: coords[i+1]})
			}
		case 'C':
			for i := 4; i+1 < len(coords); i += 6 {
				points = append(points, geometry.Point{X: coords[i], Y: coords[i+1]})
			}
		case 'S', 'Q':
			for i := 2; i+1 < len(coords); i += 4 {
				points = append(points, geometry.Point{X: coords[i], Y: coords[i+1]})
			}
		case 'A':
			for i := 5; i+1 < len(coords); i += 7 {
				points = append(points, geometry.Point{X: coords[i], Y: coords[i+1]})
			}
		case 'H':
			for _, x := range coords {
				y := 0.0
				if len(points) > 0 {
					y = points[len(points)-1].Y
				}
				points = append(points, geometry.Point{X: x, Y: y})
			}
		case 'V':
			for _, y := range coords {
				x := 0.0
				if len(points) > 0 {
					x = points[len(points)-1].X
				}
				points = append(points, geometry.Point{X: x, Y: y})
			}
		}
	}
	return points
}

// TranslatePathD shifts every absolute coordinate pair of a path d attribute
// by (dx, dy), preserving command structure. Arc radius/rotation/flag
// arguments are left untouched.
func TranslatePathD(d string, dx, dy float64) string {
	var b strings.Builder
	for i, cmd := range splitPathCommands(d) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(cmd.op)
		coords := parseFloats(cmd.args)
		switch cmd.op {
		case 'M', 'L', 'T', 'C', 'S', 'Q':
			writeShifted(&b, coords, dx, dy)
		case 'A':
			writeArcShifted(&b, coords, dx, dy)
		case 'H':
			for j, x := range coords {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(geometry.FormatCoord(x + dx))
			}
		case 'V':
			for j, y := range coords {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(geometry.FormatCoord(y + dy))
			}
		case 'Z', 'z':
		default:
			b.WriteString(cmd.args)
		}
	}
	return b.String()
}

// writeShifted writes coordinate pairs shifted by (dx, dy).
func writeShifted(b *strings.Builder, coords []float64, dx, dy float64) {
	for i := 0; i+1 < len(coords); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(geometry.FormatCoord(coords[i] + dx))
		b.WriteByte(',')
		b.WriteString(geometry.FormatCoord(coords[i+1] + dy))
	}
}

// writeArcShifted writes arc argument groups, shifting only the endpoint.
func writeArcShifted(b *strings.Builder, coords []float64, dx, dy float64) {
	for i := 0; i+7 <= len(coords); i += 7 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(geometry.FormatCoord(coords[i]))
		b.WriteByte(',')
		b.WriteString(geometry.FormatCoord(coords[i+1]))
		b.WriteByte(' ')
		b.WriteString(geometry.FormatCoord(coords[i+2]))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(int(coords[i+3])))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(int(coords[i+4])))
		b.WriteByte(' ')
		b.WriteString(geometry.FormatCoord(coords[i+5] + dx))
		b.WriteByte(',')
		b.WriteString(geometry.FormatCoord(coords[i+6] + dy))
	}
}

type pathCommand struct {
	op   byte
	args string
}

func splitPathCommands(d string) []pathCommand {
	var cmds []pathCommand
	start := -1
	var op byte
	for i := 0; i < len(d); i++ {
		c := d[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			if op != 0 {
				cmds = append(cmds, pathCommand{op: op, args: strings.TrimSpace(d[start:i])})
			}
			op = c
			start = i + 1
		}
	}
	if op != 0 {
		cmds = append(cmds, pathCommand{op: op, args: strings.TrimSpace(d[start:])})
	}
	return cmds
}

func parseFloats(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t' || r == '\r'
	})
	var out []float64
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// RenderedPoints implements the geometry engine's rendered-path capability:
// the points of the element's polyline or path, with any ancestor translate
// transforms applied. Unknown ids or unsupported elements report false.
func (d *Document) RenderedPoints(svgID string) ([]geometry.Point, bool) {
	el := d.ElementByID(svgID)
	if el == nil {
		return nil, false
	}
	var points []geometry.Point
	switch el.Name {
	case "polyline", "polygon":
		points = ParsePoints(el.Attr("points"))
	case "path":
		points = PathPoints(el.Attr("d"))
	default:
		return nil, false
	}
	if len(points) == 0 {
		return nil, false
	}
	if offset := el.cumulativeTranslation(); offset.X != 0 || offset.Y != 0 {
		points = geometry.Translate(points, offset.X, offset.Y)
	}
	return points, true
}

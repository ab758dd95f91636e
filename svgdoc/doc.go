// Package svgdoc holds a patchable in-memory model of an SVG document: a
// lightweight element tree with an id index, attribute and geometry
// read-back, and re-serialization. It is the adapter between the geometry
// engine and the rendered markup; the embedder materializes the serialized
// output into its own canvas.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gridview/diagram"
)

// ErrNoSVGElement is returned when the input markup has no <svg> element.
var ErrNoSVGElement = errors.New("no <svg> element found")

// Attr is one attribute of an element, in document order.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the document tree.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string // character data, written before children
	CData    bool   // write Text as a CDATA section

	parent *Element
	doc    *Document
}

// Document is a parsed SVG document.
type Document struct {
	Root *Element

	// Dimensions extracted from the opening <svg> tag.
	Width, Height float64
	HasSize       bool
	ViewBox       diagram.ViewBox
	HasViewBox    bool

	byID map[string]*Element
}

// Dimensions holds the sizing attributes of the outer <svg> tag.
type Dimensions struct {
	Width, Height float64
	HasSize       bool
	ViewBox       diagram.ViewBox
	HasViewBox    bool
}

// ParseDimensions extracts width/height/viewBox from the opening <svg> tag
// with a partial parse of the tag alone. The element body is never touched,
// so dimension extraction stays cheap on large documents.
func ParseDimensions(svg string) (Dimensions, error) {
	tag, err := openingSVGTag(svg)
	if err != nil {
		return Dimensions{}, err
	}
	var dims Dimensions
	attrs := scanAttrs(tag)
	w, wok := parseLength(attrs["width"])
	h, hok := parseLength(attrs["height"])
	if wok && hok {
		dims.Width, dims.Height = w, h
		dims.HasSize = true
	}
	if vb, ok := parseViewBox(attrs["viewBox"]); ok {
		dims.ViewBox = vb
		dims.HasViewBox = true
	}
	return dims, nil
}

// openingSVGTag returns the content of the first <svg ...> tag, without the
// angle brackets.
func openingSVGTag(svg string) (string, error) {
	for from := 0; ; {
		i := strings.Index(svg[from:], "<svg")
		if i < 0 {
			return "", ErrNoSVGElement
		}
		i += from
		rest := svg[i+4:]
		if len(rest) == 0 {
			return "", ErrNoSVGElement
		}
		// Reject longer names such as <svgfoo>.
		if c := rest[0]; c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '>' && c != '/' {
			from = i + 4
			continue
		}
		end := tagEnd(rest)
		if end < 0 {
			return "", ErrNoSVGElement
		}
		return strings.TrimSuffix(strings.TrimSpace(rest[:end]), "/"), nil
	}
}

// tagEnd finds the index of the closing '>' outside quoted attribute values.
func tagEnd(s string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}

// scanAttrs parses name="value" pairs from a tag body.
func scanAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	i := 0
	for i < len(tag) {
		for i < len(tag) && (tag[i] == ' ' || tag[i] == '\t' || tag[i] == '\n' || tag[i] == '\r') {
			i++
		}
		start := i
		for i < len(tag) && tag[i] != '=' && tag[i] != ' ' && tag[i] != '\t' && tag[i] != '\n' && tag[i] != '\r' {
			i++
		}
		name := tag[start:i]
		for i < len(tag) && (tag[i] == ' ' || tag[i] == '=') {
			if tag[i] == '=' {
				i++
				break
			}
			i++
		}
		if i < len(tag) && (tag[i] == '"' || tag[i] == '\'') {
			quote := tag[i]
			i++
			vstart := i
			for i < len(tag) && tag[i] != quote {
				i++
			}
			if name != "" {
				attrs[name] = tag[vstart:i]
			}
			i++
		}
	}
	return attrs
}

func parseLength(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parseViewBox(s string) (diagram.ViewBox, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 4 {
		return diagram.ViewBox{}, false
	}
	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return diagram.ViewBox{}, false
		}
		vals[i] = v
	}
	return diagram.ViewBox{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, true
}

// Parse materializes the full document tree. The dimension contract of
// ParseDimensions is honored first, so a document with no <svg> element fails
// before the body is decoded.
func Parse(svg string) (*Document, error) {
	dims, err := ParseDimensions(svg)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Width:      dims.Width,
		Height:     dims.Height,
		HasSize:    dims.HasSize,
		ViewBox:    dims.ViewBox,
		HasViewBox: dims.HasViewBox,
		byID:       make(map[string]*Element),
	}

	decoder := xml.NewDecoder(strings.NewReader(svg))
	decoder.Strict = false
	var stack []*Element
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, doc: doc}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if el.Name == "svg" && doc.Root == nil {
					doc.Root = el
				}
			} else {
				parent := stack[len(stack)-1]
				el.parent = parent
				parent.Children = append(parent.Children, el)
			}
			if id := el.Attr("id"); id != "" {
				doc.byID[id] = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				text := string(t)
				if strings.TrimSpace(text) != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}
	if doc.Root == nil {
		return nil, ErrNoSVGElement
	}
	return doc, nil
}

// attrName reconstructs a readable attribute name from the decoder's
// namespace-resolved form.
func attrName(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	case "http://www.w3.org/1999/xlink":
		return "xlink:" + name.Local
	case "http://www.w3.org/XML/1998/namespace":
		return "xml:" + name.Local
	default:
		return name.Local
	}
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	return d.byID[id]
}

// String serializes the document back to SVG markup.
func (d *Document) String() string {
	var b strings.Builder
	if d.Root != nil {
		writeElement(&b, d.Root)
	}
	return b.String()
}

func writeElement(b *strings.Builder, el *Element) {
	b.WriteByte('<')
	b.WriteString(el.Name)
	for _, a := range el.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Value))
		b.WriteByte('"')
	}
	if el.Text == "" && len(el.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	if el.Text != "" {
		if el.CData {
			b.WriteString("<![CDATA[")
			b.WriteString(el.Text)
			b.WriteString("]]>")
		} else {
			b.WriteString(escapeText(el.Text))
		}
	}
	for _, child := range el.Children {
		writeElement(b, child)
	}
	b.WriteString("</")
	b.WriteString(el.Name)
	b.WriteByte('>')
}

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

func escapeText(s string) string { return textEscaper.Replace(s) }

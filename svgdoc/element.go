package svgdoc

import "strings"

// Attr returns the value of the named attribute, or "".
func (el *Element) Attr(name string) string {
	for _, a := range el.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets or appends the named attribute. Setting "id" keeps the
// document index in sync.
func (el *Element) SetAttr(name, value string) {
	if name == "id" && el.doc != nil {
		if old := el.Attr("id"); old != "" {
			delete(el.doc.byID, old)
		}
		if value != "" {
			el.doc.byID[value] = el
		}
	}
	for i := range el.Attrs {
		if el.Attrs[i].Name == name {
			el.Attrs[i].Value = value
			return
		}
	}
	el.Attrs = append(el.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute if present.
func (el *Element) RemoveAttr(name string) {
	for i := range el.Attrs {
		if el.Attrs[i].Name == name {
			if name == "id" && el.doc != nil {
				delete(el.doc.byID, el.Attrs[i].Value)
			}
			el.Attrs = append(el.Attrs[:i], el.Attrs[i+1:]...)
			return
		}
	}
}

// ID returns the element id, or "".
func (el *Element) ID() string {
	return el.Attr("id")
}

// Parent returns the parent element, nil for the root.
func (el *Element) Parent() *Element {
	return el.parent
}

// HasClass reports whether the class attribute contains the given class.
func (el *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(el.Attr("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends a class to the class attribute if absent.
func (el *Element) AddClass(class string) {
	if el.HasClass(class) {
		return
	}
	existing := el.Attr("class")
	if existing == "" {
		el.SetAttr("class", class)
		return
	}
	el.SetAttr("class", existing+" "+class)
}

// RemoveClass removes a class from the class attribute.
func (el *Element) RemoveClass(class string) {
	fields := strings.Fields(el.Attr("class"))
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	el.SetAttr("class", strings.Join(kept, " "))
}

// CreateChild appends a new child element and returns it.
func (el *Element) CreateChild(name string) *Element {
	child := &Element{Name: name, parent: el, doc: el.doc}
	el.Children = append(el.Children, child)
	return child
}

// InsertChildFirst prepends a new child element and returns it.
func (el *Element) InsertChildFirst(name string) *Element {
	child := &Element{Name: name, parent: el, doc: el.doc}
	el.Children = append([]*Element{child}, el.Children...)
	return child
}

// Remove detaches the element from its parent and drops its subtree from the
// id index. Removing the root is a no-op.
func (el *Element) Remove() {
	if el.parent == nil {
		return
	}
	siblings := el.parent.Children
	for i, c := range siblings {
		if c == el {
			el.parent.Children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	el.parent = nil
	if el.doc != nil {
		el.deindex()
	}
}

func (el *Element) deindex() {
	if id := el.Attr("id"); id != "" && el.doc.byID[id] == el {
		delete(el.doc.byID, id)
	}
	for _, c := range el.Children {
		c.deindex()
	}
}

// ChildByName returns the first direct child with the given element name.
func (el *Element) ChildByName(name string) *Element {
	for _, c := range el.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenByName returns the direct children with the given element name.
func (el *Element) ChildrenByName(name string) []*Element {
	var out []*Element
	for _, c := range el.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// NearestIdentified walks up from the element (inclusive) to the first
// element carrying an id, the way a pointer hit on a sub-element resolves to
// the identified group that owns it.
func (el *Element) NearestIdentified() *Element {
	for e := el; e != nil; e = e.parent {
		if e.Attr("id") != "" {
			return e
		}
	}
	return nil
}

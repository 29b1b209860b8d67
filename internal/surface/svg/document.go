// Package svg is an in-memory SVG drawing surface. Elements are addressed by id, can be cloned
// from a prototype, changed, removed and animated, and the whole document serialises to SVG.
package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/services/carousel"
)

// ErrNotFound reports an element id missing from the document.
var ErrNotFound = errors.New("element not found")

const animationDuration = "0.4s"

type attr struct {
	name  string
	value string
}

type element struct {
	tag      string
	attrs    []attr
	text     string
	children []*element
	parent   *element
}

func (e *element) id() string {
	v, _ := e.attr("id")
	return v
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

func (e *element) setAttr(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attr{name: name, value: value})
}

func (e *element) append(children ...*element) *element {
	for _, c := range children {
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

// clone deep-copies e. Ids of descendants are dropped so they stay unique.
func (e *element) clone(id string) *element {
	out := &element{tag: e.tag, text: e.text}
	for _, a := range e.attrs {
		if a.name == "id" {
			continue
		}
		out.attrs = append(out.attrs, a)
	}
	if id != "" {
		out.attrs = append([]attr{{name: "id", value: id}}, out.attrs...)
	}
	for _, c := range e.children {
		out.append(c.clone(""))
	}
	return out
}

// Document SVG element tree with an id index. Not safe for concurrent use.
type Document struct {
	root *element
	byID map[string]*element
}

func newDocument(root *element) *Document {
	d := &Document{root: root, byID: make(map[string]*element)}
	d.index(root)
	return d
}

func (d *Document) index(e *element) {
	if id := e.id(); id != "" {
		d.byID[id] = e
	}
	for _, c := range e.children {
		d.index(c)
	}
}

func (d *Document) unindex(e *element) {
	if id := e.id(); id != "" {
		delete(d.byID, id)
	}
	for _, c := range e.children {
		d.unindex(c)
	}
}

func (d *Document) find(id string) (*element, error) {
	e, ok := d.byID[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "id %q", id)
	}
	return e, nil
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// FindOrClone makes sure id exists, appending a clone of prototypeID next to the prototype
// when it does not.
func (d *Document) FindOrClone(id, prototypeID string) error {
	if d.Has(id) {
		return nil
	}
	proto, err := d.find(prototypeID)
	if err != nil {
		return errors.Wrap(err, "clone prototype")
	}
	if proto.parent == nil {
		return errors.Errorf("cannot clone root element %q", prototypeID)
	}
	c := proto.clone(id)
	proto.parent.append(c)
	d.index(c)
	return nil
}

// SetAttribute sets an attribute of element id.
func (d *Document) SetAttribute(id, name, value string) error {
	e, err := d.find(id)
	if err != nil {
		return err
	}
	e.setAttr(name, value)
	return nil
}

// Attribute returns an attribute of element id.
func (d *Document) Attribute(id, name string) (string, bool) {
	e, ok := d.byID[id]
	if !ok {
		return "", false
	}
	return e.attr(name)
}

// SetText sets the content of the first <text> child of element id, or of the element itself
// when it has none.
func (d *Document) SetText(id, text string) error {
	e, err := d.find(id)
	if err != nil {
		return err
	}
	textElementOf(e).text = text
	return nil
}

// Text returns the label text of element id.
func (d *Document) Text(id string) (string, bool) {
	e, ok := d.byID[id]
	if !ok {
		return "", false
	}
	return textElementOf(e).text, true
}

func textElementOf(e *element) *element {
	for _, c := range e.children {
		if c.tag == "text" {
			return c
		}
	}
	return e
}

// Remove deletes element id and its subtree.
func (d *Document) Remove(id string) error {
	e, err := d.find(id)
	if err != nil {
		return err
	}
	if e.parent == nil {
		return errors.Errorf("cannot remove root element %q", id)
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e {
			e.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	e.parent = nil
	d.unindex(e)
	return nil
}

// Move slides element id horizontally from one offset to another. Unknown elements are ignored.
func (d *Document) Move(id string, from, to float64) {
	e, ok := d.byID[id]
	if !ok {
		return
	}
	e.setAttr("transform", "translate("+formatNumber(to)+",0)")
	d.replaceAnimation(e, &element{tag: "animateTransform", attrs: []attr{
		{name: "attributeName", value: "transform"},
		{name: "type", value: "translate"},
		{name: "from", value: formatNumber(from) + " 0"},
		{name: "to", value: formatNumber(to) + " 0"},
		{name: "dur", value: animationDuration},
		{name: "fill", value: "freeze"},
	}})
}

// Fade dims or highlights element id. Unknown elements are ignored.
func (d *Document) Fade(id string, direction carousel.FadeDirection) {
	e, ok := d.byID[id]
	if !ok {
		return
	}
	from, to := "1", "0.4"
	if direction == carousel.FadeIn {
		from, to = to, from
	}
	e.setAttr("opacity", to)
	d.replaceAnimation(e, &element{tag: "animate", attrs: []attr{
		{name: "attributeName", value: "opacity"},
		{name: "from", value: from},
		{name: "to", value: to},
		{name: "dur", value: animationDuration},
		{name: "fill", value: "freeze"},
	}})
}

// replaceAnimation keeps at most one animation per kind on an element.
func (d *Document) replaceAnimation(e, anim *element) {
	kept := e.children[:0]
	for _, c := range e.children {
		if c.tag != anim.tag {
			kept = append(kept, c)
		}
	}
	e.children = kept
	e.append(anim)
}

// WriteTo serialises the document as SVG.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	writeElement(&buf, d.root)
	return buf.WriteTo(w)
}

// String returns the SVG markup.
func (d *Document) String() string {
	var buf bytes.Buffer
	writeElement(&buf, d.root)
	return buf.String()
}

func writeElement(buf *bytes.Buffer, e *element) {
	buf.WriteByte('<')
	buf.WriteString(e.tag)
	for _, a := range e.attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.name)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.value))
		buf.WriteByte('"')
	}
	if e.text == "" && len(e.children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	_ = xml.EscapeText(buf, []byte(e.text))
	for _, c := range e.children {
		writeElement(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(e.tag)
	buf.WriteByte('>')
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

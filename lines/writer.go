package lines

import (
	"html"
	"strings"
)

// State of a ListWriter.
type State int

const (
	NoSection State = iota
	InSection
)

// ListWriter emits grouped lists as HTML. It opens a list lazily on the
// first item, and a group marker closes the current list (if any), writes a
// heading and opens the next one. Close is idempotent.
type ListWriter struct {
	ListTag      string // "ul" or "ol"
	ListClass    string
	HeadingTag   string
	HeadingClass string

	b     strings.Builder
	state State
}

func NewListWriter(listTag, listClass, headingTag, headingClass string) *ListWriter {
	return &ListWriter{ListTag: listTag, ListClass: listClass, HeadingTag: headingTag, HeadingClass: headingClass}
}

func (w *ListWriter) State() State { return w.state }

// Marker handles a group marker line. An untitled marker starts a new list
// without a heading.
func (w *ListWriter) Marker(title string) {
	w.Close()
	if strings.TrimSpace(title) != "" {
		w.b.WriteString("<" + w.HeadingTag + classAttr(w.HeadingClass) + ">")
		w.b.WriteString(html.EscapeString(title))
		w.b.WriteString("</" + w.HeadingTag + ">")
	}
	w.open()
}

// Item writes one already rendered <li> element.
func (w *ListWriter) Item(li string) {
	if w.state == NoSection {
		w.open()
	}
	w.b.WriteString(li)
}

func (w *ListWriter) Close() {
	if w.state == InSection {
		w.b.WriteString("</" + w.ListTag + ">")
		w.state = NoSection
	}
}

// String closes any open list and returns the markup.
func (w *ListWriter) String() string {
	w.Close()
	return w.b.String()
}

func (w *ListWriter) open() {
	w.b.WriteString("<" + w.ListTag + classAttr(w.ListClass) + ">")
	w.state = InSection
}

func classAttr(c string) string {
	if c == "" {
		return ""
	}
	return ` class="` + html.EscapeString(c) + `"`
}

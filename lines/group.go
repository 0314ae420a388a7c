package lines

// Line is implemented by the ingredient, instruction and equipment line types.
type Line interface {
	IsGroup() bool
	Title() string
}

// Section is a run of data lines under an optional heading.
type Section[T Line] struct {
	Title string
	Items []T
}

// Group splits items into sections in a single pass. Order is preserved.
func Group[T Line](items []T) []Section[T] {
	var sections []Section[T]
	for _, it := range items {
		if it.IsGroup() {
			sections = append(sections, Section[T]{Title: it.Title()})
			continue
		}
		if len(sections) == 0 {
			sections = append(sections, Section[T]{})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, it)
	}
	return sections
}

// StartsWithGroup reports whether the first entry is a group marker.
func StartsWithGroup[T Line](items []T) bool {
	return len(items) > 0 && items[0].IsGroup()
}

// DataCount counts the non-marker lines.
func DataCount[T Line](items []T) int {
	n := 0
	for _, it := range items {
		if !it.IsGroup() {
			n++
		}
	}
	return n
}

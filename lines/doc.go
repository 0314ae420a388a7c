// Package lines turns the ordered line lists stored on a recipe (ingredients,
// instructions, equipment) into sections. A group marker line starts a new
// titled section; lines before the first marker form an untitled section.
package lines

// Package terms resolves taxonomy entries (ingredients, equipment, courses...)
// referenced by ID from recipe data.
package terms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipepress/models"
)

const (
	Ingredient = "rpr_ingredient"
	Equipment  = "rpr_equipment"
	Course     = "rpr_course"
	Cuisine    = "rpr_cuisine"
	Season     = "rpr_season"
	Difficulty = "rpr_difficulty"
	Diet       = "rpr_diet"
	Tag        = "post_tag"
)

// archive URL bases per taxonomy
var bases = map[string]string{
	Ingredient: "ingredient",
	Equipment:  "equipment",
	Course:     "course",
	Cuisine:    "cuisine",
	Season:     "season",
	Difficulty: "difficulty",
	Diet:       "diet",
	Tag:        "tag",
}

// Labels are the human names of the taxonomies.
var Labels = map[string]string{
	Ingredient: "ingredients",
	Equipment:  "equipment",
	Course:     "course",
	Cuisine:    "cuisine",
	Season:     "season",
	Difficulty: "difficulty",
	Diet:       "diet",
	Tag:        "tags",
}

// Known reports whether taxonomy is one of the registered ones.
func Known(taxonomy string) bool {
	_, ok := bases[taxonomy]
	return ok
}

// Store looks up terms. Resolve wraps models.ErrNotFound for dangling IDs.
type Store interface {
	Resolve(ctx context.Context, termID int64) (*models.Term, error)
	TermsFor(ctx context.Context, postID int64, taxonomy string) ([]models.Term, error)
	List(ctx context.Context, taxonomy string) ([]models.Term, error)
	Save(ctx context.Context, term models.Term) error
}

// IsNotFound reports whether err is a dangling reference.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}

// ArchiveURL is the listing page of a term.
func ArchiveURL(siteURL string, t *models.Term) string {
	if t == nil || t.Slug == "" {
		return ""
	}
	base, ok := bases[t.Taxonomy]
	if !ok {
		base = strings.TrimPrefix(t.Taxonomy, "rpr_")
	}
	return fmt.Sprintf("%s/%s/%s/", strings.TrimRight(siteURL, "/"), base, t.Slug)
}

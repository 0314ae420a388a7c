// Package render produces the HTML fragments of a recipe. Every section
// method returns an empty fragment when the recipe has nothing to show for
// it; callers treat "" as "render nothing". Errors are only returned for
// store failures.
package render

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"

	"recipepress/lines"
	"recipepress/media"
	"recipepress/models"
	"recipepress/settings"
	"recipepress/terms"

	"github.com/microcosm-cc/bluemonday"
)

// Recipe bundles a post with its typed metadata.
type Recipe struct {
	Post *models.RecipePost
	Meta models.RecipeMeta
}

func (rec Recipe) id() int64 {
	if rec.Post == nil {
		return 0
	}
	return rec.Post.ID
}

type Renderer struct {
	Opts  settings.Options
	Terms terms.Store
	Media media.Resolver

	policy *bluemonday.Policy
}

func New(opts settings.Options, ts terms.Store, mr media.Resolver) *Renderer {
	return &Renderer{Opts: opts, Terms: ts, Media: mr, policy: bluemonday.UGCPolicy()}
}

type sectionFunc func(r *Renderer, ctx context.Context, rec Recipe) (template.HTML, error)

var sections = map[string]sectionFunc{
	"description":  (*Renderer).Description,
	"rating":       (*Renderer).Rating,
	"times":        (*Renderer).Times,
	"servings":     (*Renderer).Servings,
	"ingredients":  (*Renderer).Ingredients,
	"equipment":    (*Renderer).Equipment,
	"instructions": (*Renderer).Instructions,
	"notes":        (*Renderer).Notes,
	"nutrition":    (*Renderer).Nutrition,
	"source":       (*Renderer).Source,
	"video":        (*Renderer).Video,
	"taxonomies":   (*Renderer).Taxonomies,
}

// HasSection reports whether name is a renderable section.
func HasSection(name string) bool {
	_, ok := sections[name]
	return ok
}

// Section renders one named section.
func (r *Renderer) Section(ctx context.Context, rec Recipe, name string) (template.HTML, error) {
	fn, ok := sections[name]
	if !ok {
		return "", fmt.Errorf("unknown section %q", name)
	}
	return fn(r, ctx, rec)
}

// Recipe composes the sections listed in the layout option.
func (r *Renderer) Recipe(ctx context.Context, rec Recipe) (template.HTML, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="rpr-recipe" id="rpr-recipe-%d">`, rec.id())
	for _, name := range r.Opts.Layout {
		if !HasSection(name) {
			continue
		}
		frag, err := r.Section(ctx, rec, name)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		b.WriteString(string(frag))
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

// headingTag is h2, or h3 when the recipe is embedded in another post.
func headingTag(rec Recipe) string {
	if rec.Post.Embedded() {
		return "h3"
	}
	return "h2"
}

func subHeadingTag(rec Recipe) string {
	if rec.Post.Embedded() {
		return "h4"
	}
	return "h3"
}

func (r *Renderer) heading(rec Recipe, name, title string) string {
	tag := headingTag(rec)
	return fmt.Sprintf(`<%s class="rpr-%s-title">%s%s</%s>`, tag, name, r.icon(name), html.EscapeString(title), tag)
}

func (r *Renderer) icon(name string) string {
	if !r.Opts.UseIcons {
		return ""
	}
	return `<i class="rpr-icon rpr-icon-` + name + `"></i> `
}

func (r *Renderer) sanitize(s string) string {
	return r.policy.Sanitize(s)
}

func warning(msg string) template.HTML {
	return template.HTML(`<p class="rpr-warning">` + html.EscapeString(msg) + `</p>`)
}

// notes renders a line note with the configured separator.
func (r *Renderer) note(class, notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ""
	}
	n := html.EscapeString(notes)
	switch r.Opts.IngredientsNoteSep {
	case settings.SepParen:
		return ` <span class="` + class + `">(` + n + `)</span>`
	case settings.SepComma:
		return `<span class="` + class + `">, ` + n + `</span>`
	default:
		return ` <span class="` + class + `">` + n + `</span>`
	}
}

// termLink applies the ingredient link policy. custom is the line's own link
// or the term's link meta; archive links need the term to opt in to listings.
func (r *Renderer) termLink(lineLink string, lineTarget int, t *models.Term) (href string, newWindow bool) {
	custom := lines.SafeURL(lineLink)
	if custom == "" && t != nil {
		custom = lines.SafeURL(t.Meta.Link)
	}
	archive := ""
	if t != nil && t.Meta.UseInListings {
		archive = terms.ArchiveURL(r.Opts.SiteURL, t)
	}

	switch r.Opts.IngredientLinks {
	case settings.LinksArchive:
		return archive, false
	case settings.LinksCustomOrArchive:
		if custom != "" {
			return custom, lineTarget == 1
		}
		return archive, false
	case settings.LinksCustomOnly:
		if custom != "" {
			return custom, lineTarget == 1
		}
	}
	return "", false
}

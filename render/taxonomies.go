package render

import (
	"context"
	"html"
	"html/template"
	"io"
	"strings"

	"recipepress/lines"
	"recipepress/terms"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

// Taxonomy renders the terms of one taxonomy assigned to the recipe, linked
// to their archive when the term is listed.
func (r *Renderer) Taxonomy(ctx context.Context, rec Recipe, taxonomy string) (template.HTML, error) {
	list, err := r.Terms.TermsFor(ctx, rec.id(), taxonomy)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", nil
	}

	label, ok := terms.Labels[taxonomy]
	if !ok {
		label = strings.ReplaceAll(strings.TrimPrefix(taxonomy, "rpr_"), "_", " ")
	}
	class := strings.ReplaceAll(strings.TrimPrefix(taxonomy, "rpr_"), "_", "-")

	names := make([]string, 0, len(list))
	for i := range list {
		t := &list[i]
		name := html.EscapeString(t.Name)
		if t.Meta.UseInListings {
			if href := terms.ArchiveURL(r.Opts.SiteURL, t); href != "" {
				name = lines.Anchor(href, name, false)
			}
		}
		names = append(names, name)
	}

	return template.HTML(`<p class="rpr-taxonomy rpr-taxonomy-` + class + `">` + r.icon(class) +
		`<span class="rpr-taxonomy-label">` + html.EscapeString(titleCase.String(label)) + `:</span> ` +
		strings.Join(names, ", ") + `</p>`), nil
}

// Taxonomies renders every taxonomy listed in the options.
func (r *Renderer) Taxonomies(ctx context.Context, rec Recipe) (template.HTML, error) {
	var b strings.Builder
	for _, tax := range r.Opts.Taxonomies {
		frag, err := r.Taxonomy(ctx, rec, tax)
		if err != nil {
			return "", err
		}
		b.WriteString(string(frag))
	}
	if b.Len() == 0 {
		return "", nil
	}
	return template.HTML(`<div class="rpr-taxonomies">` + b.String() + `</div>`), nil
}

// RenderTo writes a section, or the whole recipe for section "", to w.
func (r *Renderer) RenderTo(ctx context.Context, w io.Writer, rec Recipe, section string) error {
	var (
		frag template.HTML
		err  error
	)
	if section == "" {
		frag, err = r.Recipe(ctx, rec)
	} else {
		frag, err = r.Section(ctx, rec, section)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, string(frag))
	return err
}

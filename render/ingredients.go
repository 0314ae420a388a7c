package render

import (
	"context"
	"html"
	"html/template"
	"strings"

	"recipepress/lines"
	"recipepress/models"
	"recipepress/terms"
)

const (
	msgNoIngredients  = "No ingredients could be found for this recipe."
	msgMissingIngr    = "This ingredient no longer exists."
	msgNoInstructions = "No instructions could be found for this recipe."
	msgMissingEquip   = "This equipment no longer exists."
)

// Ingredients renders the grouped ingredient list.
func (r *Renderer) Ingredients(ctx context.Context, rec Recipe) (template.HTML, error) {
	items := rec.Meta.Ingredients
	if lines.DataCount(items) == 0 {
		return warning(msgNoIngredients), nil
	}

	w := lines.NewListWriter("ul", "rpr-ingredient-list", subHeadingTag(rec), "rpr-ingredient-group-title")
	for _, l := range items {
		if l.IsGroup() {
			w.Marker(l.GroupTitle)
			continue
		}
		li, err := r.ingredientLine(ctx, l)
		if err != nil {
			return "", err
		}
		if li != "" {
			w.Item(li)
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="rpr-ingredients">`)
	b.WriteString(r.heading(rec, "ingredients", "Ingredients"))
	b.WriteString(w.String())
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

func (r *Renderer) ingredientLine(ctx context.Context, l models.IngredientLine) (string, error) {
	var term *models.Term
	if l.IngredientID > 0 {
		t, err := r.Terms.Resolve(ctx, l.IngredientID)
		switch {
		case terms.IsNotFound(err):
			if l.Line == "" {
				return `<li class="rpr-ingredient rpr-ingredient-missing">` + html.EscapeString(msgMissingIngr) + `</li>`, nil
			}
		case err != nil:
			return "", err
		default:
			term = t
		}
	}

	if l.Line != "" {
		href, newWindow := r.termLink(l.Link, l.Target, term)
		return `<li class="rpr-ingredient rpr-ingredient-legacy">` +
			lines.ParseFreeform(l.Line).HTML(href, newWindow, "rpr-ingredient-note") + `</li>`, nil
	}

	name := l.Ingredient
	plural := ""
	if term != nil {
		name = term.Name
		plural = term.Meta.PluralName
	}
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	if r.Opts.IngredientsPlural && lines.ParseAmount(l.Amount) > 1 {
		name = lines.Pluralize(name, plural)
	}

	nameHTML := html.EscapeString(name)
	if href, newWindow := r.termLink(l.Link, l.Target, term); href != "" {
		nameHTML = lines.Anchor(href, nameHTML, newWindow)
	}

	var b strings.Builder
	b.WriteString(`<li class="rpr-ingredient">`)
	if a := strings.TrimSpace(l.Amount); a != "" {
		b.WriteString(`<span class="rpr-ingredient-quantity">` + html.EscapeString(a) + `</span> `)
	}
	if u := strings.TrimSpace(l.Unit); u != "" {
		b.WriteString(`<span class="rpr-ingredient-unit">` + html.EscapeString(u) + `</span> `)
	}
	b.WriteString(`<span class="rpr-ingredient-name">` + nameHTML + `</span>`)
	b.WriteString(r.note("rpr-ingredient-note", l.Notes))
	b.WriteString(`</li>`)
	return b.String(), nil
}

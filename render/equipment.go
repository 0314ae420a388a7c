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

// Equipment renders the equipment list, or nothing when there is none.
func (r *Renderer) Equipment(ctx context.Context, rec Recipe) (template.HTML, error) {
	items := rec.Meta.Equipment
	if !r.Opts.ShowEquipment || lines.DataCount(items) == 0 {
		return "", nil
	}

	w := lines.NewListWriter("ul", "rpr-equipment-list", subHeadingTag(rec), "rpr-equipment-group-title")
	for _, l := range items {
		if l.IsGroup() {
			w.Marker(l.GroupTitle)
			continue
		}
		li, err := r.equipmentLine(ctx, l)
		if err != nil {
			return "", err
		}
		if li != "" {
			w.Item(li)
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="rpr-equipment">`)
	b.WriteString(r.heading(rec, "equipment", "Equipment"))
	b.WriteString(w.String())
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

func (r *Renderer) equipmentLine(ctx context.Context, l models.EquipmentLine) (string, error) {
	var term *models.Term
	if l.EquipmentID > 0 {
		t, err := r.Terms.Resolve(ctx, l.EquipmentID)
		switch {
		case terms.IsNotFound(err):
			return `<li class="rpr-equipment-item rpr-equipment-missing">` + html.EscapeString(msgMissingEquip) + `</li>`, nil
		case err != nil:
			return "", err
		}
		term = t
	}

	name := l.Name
	if term != nil {
		name = term.Name
	}
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	nameHTML := html.EscapeString(name)
	if href, newWindow := r.termLink(l.Link, l.Target, term); href != "" {
		nameHTML = lines.Anchor(href, nameHTML, newWindow)
	}
	return `<li class="rpr-equipment-item"><span class="rpr-equipment-name">` + nameHTML + `</span>` +
		r.note("rpr-equipment-note", l.Notes) + `</li>`, nil
}

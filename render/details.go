package render

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"recipepress/lines"
	"recipepress/models"
	"recipepress/ratings"
)

// Description renders the sanitised recipe description.
func (r *Renderer) Description(_ context.Context, rec Recipe) (template.HTML, error) {
	d := strings.TrimSpace(r.sanitize(rec.Meta.Description))
	if d == "" {
		return "", nil
	}
	return template.HTML(`<div class="rpr-description">` + d + `</div>`), nil
}

// Notes renders the free-form notes below the instructions.
func (r *Renderer) Notes(_ context.Context, rec Recipe) (template.HTML, error) {
	n := strings.TrimSpace(r.sanitize(rec.Meta.Notes))
	if n == "" {
		return "", nil
	}
	return template.HTML(`<div class="rpr-notes">` + r.heading(rec, "notes", "Notes") + n + `</div>`), nil
}

// Rating renders the star row from the denormalized rating fields.
func (r *Renderer) Rating(_ context.Context, rec Recipe) (template.HTML, error) {
	if rec.Meta.RatingCount <= 0 {
		return "", nil
	}
	return template.HTML(fmt.Sprintf(`<div class="rpr-rating">%s%s <span class="rpr-rating-count">(%d)</span></div>`,
		r.icon("rating"), ratings.StarsHTML(rec.Meta.RatingAverage, rec.Meta.RatingCount), rec.Meta.RatingCount)), nil
}

// FormatMinutes prints 45 as "45 min" and 90 as "1 h 30 min".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	h, rest := m/60, m%60
	if rest == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, rest)
}

// Times lists preparation, cooking and waiting time plus their sum. Zero
// entries are left out.
func (r *Renderer) Times(_ context.Context, rec Recipe) (template.HTML, error) {
	m := rec.Meta
	if m.TotalTime() == 0 {
		return "", nil
	}
	entries := []struct {
		class, label string
		minutes      int
	}{
		{"prep", "Preparation", m.PrepTime},
		{"cook", "Cooking", m.CookTime},
		{"passive", "Waiting", m.PassiveTime},
		{"total", "Ready in", m.TotalTime()},
	}

	var b strings.Builder
	b.WriteString(`<ul class="rpr-times">`)
	for _, e := range entries {
		if e.minutes <= 0 {
			continue
		}
		fmt.Fprintf(&b, `<li class="rpr-time rpr-time-%s">%s<span class="rpr-time-label">%s:</span> <span class="rpr-time-value">%s</span></li>`,
			e.class, r.icon("time-"+e.class), e.label, FormatMinutes(e.minutes))
	}
	b.WriteString(`</ul>`)
	return template.HTML(b.String()), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Servings renders the yield line.
func (r *Renderer) Servings(_ context.Context, rec Recipe) (template.HTML, error) {
	if rec.Meta.Servings <= 0 {
		return "", nil
	}
	text := formatNumber(rec.Meta.Servings)
	if t := strings.TrimSpace(rec.Meta.ServingsType); t != "" {
		text += " " + html.EscapeString(t)
	}
	return template.HTML(`<p class="rpr-servings">` + r.icon("servings") +
		`<span class="rpr-servings-label">Servings:</span> <span class="rpr-servings-value">` + text + `</span></p>`), nil
}

var nutritionPer = map[string]string{
	"per_100g":    "per 100 g",
	"per_portion": "per portion",
	"per_recipe":  "per recipe",
}

type nutrient struct {
	class, label, unit string
	value              float64
}

func nutrients(n models.Nutrition) []nutrient {
	return []nutrient{
		{"calories", "Calories", "kcal", n.Calories},
		{"protein", "Protein", "g", n.Protein},
		{"fat", "Fat", "g", n.Fat},
		{"saturated-fat", "Saturated fat", "g", n.SaturatedFat},
		{"trans-fat", "Trans fat", "g", n.TransFat},
		{"unsaturated-fat", "Unsaturated fat", "g", n.UnsaturatedFat},
		{"carbohydrate", "Carbohydrates", "g", n.Carbohydrate},
		{"sugar", "Sugar", "g", n.Sugar},
		{"fiber", "Fiber", "g", n.Fiber},
		{"sodium", "Sodium", "mg", n.Sodium},
		{"cholesterol", "Cholesterol", "mg", n.Cholesterol},
	}
}

// Nutrition renders the nutrition facts that are set.
func (r *Renderer) Nutrition(_ context.Context, rec Recipe) (template.HTML, error) {
	n := rec.Meta.Nutrition
	if !r.Opts.ShowNutrition || n.Empty() {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(`<div class="rpr-nutrition">`)
	b.WriteString(r.heading(rec, "nutrition", "Nutrition"))
	if per, ok := nutritionPer[n.Per]; ok {
		b.WriteString(`<p class="rpr-nutrition-per">` + per + `</p>`)
	}
	b.WriteString(`<dl class="rpr-nutrition-list">`)
	for _, e := range nutrients(n) {
		if e.value <= 0 {
			continue
		}
		fmt.Fprintf(&b, `<dt class="rpr-nutrition-%s">%s</dt><dd class="rpr-nutrition-%s">%s %s</dd>`,
			e.class, e.label, e.class, formatNumber(e.value), e.unit)
	}
	b.WriteString(`</dl></div>`)
	return template.HTML(b.String()), nil
}

// Source renders the attribution line, linked when a link is set.
func (r *Renderer) Source(_ context.Context, rec Recipe) (template.HTML, error) {
	s := rec.Meta.Source
	name := strings.TrimSpace(s.Name)
	if name == "" && s.Link == "" {
		return "", nil
	}
	if name == "" {
		name = s.Link
	}
	text := html.EscapeString(name)
	if s.Link != "" {
		text = lines.Anchor(s.Link, text, s.LinkTarget)
	}
	return template.HTML(`<p class="rpr-source">` + r.icon("source") +
		`<span class="rpr-source-label">Source:</span> ` + text + `</p>`), nil
}

// Video renders a link to the recipe video with its first thumbnail.
func (r *Renderer) Video(_ context.Context, rec Recipe) (template.HTML, error) {
	v := rec.Meta.Video
	link := lines.SafeURL(v.URL)
	if link == "" {
		return "", nil
	}
	title := v.Title
	if title == "" {
		title = v.URL
	}

	var b strings.Builder
	b.WriteString(`<div class="rpr-video">`)
	b.WriteString(r.heading(rec, "video", "Video"))
	fmt.Fprintf(&b, `<a class="rpr-video-link" href="%s" target="_blank" rel="noopener">`, html.EscapeString(link))
	if len(v.Thumbnails) > 0 {
		fmt.Fprintf(&b, `<img class="rpr-video-thumbnail" src="%s" alt="%s">`,
			html.EscapeString(v.Thumbnails[0]), html.EscapeString(title))
	}
	b.WriteString(`<span class="rpr-video-title">` + html.EscapeString(title) + `</span></a>`)
	if d := strings.TrimSpace(v.Description); d != "" {
		b.WriteString(`<p class="rpr-video-description">` + html.EscapeString(d) + `</p>`)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

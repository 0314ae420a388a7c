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

// Instructions renders the grouped, numbered steps.
func (r *Renderer) Instructions(ctx context.Context, rec Recipe) (template.HTML, error) {
	items := rec.Meta.Instructions
	if lines.DataCount(items) == 0 {
		return warning(msgNoInstructions), nil
	}

	w := lines.NewListWriter("ol", "rpr-instruction-list", subHeadingTag(rec), "rpr-instruction-group-title")
	for _, l := range items {
		if l.IsGroup() {
			w.Marker(l.GroupTitle)
			continue
		}
		li, err := r.instructionLine(ctx, l)
		if err != nil {
			return "", err
		}
		if li != "" {
			w.Item(li)
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="rpr-instructions">`)
	b.WriteString(r.heading(rec, "instructions", "Instructions"))
	b.WriteString(w.String())
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

func (r *Renderer) instructionLine(ctx context.Context, l models.InstructionLine) (string, error) {
	text := strings.TrimSpace(r.sanitize(l.Description))
	img, err := r.instructionImage(ctx, l.Image)
	if err != nil {
		return "", err
	}
	if text == "" && img == "" {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(`<li class="rpr-instruction">`)
	if r.Opts.InstructionImagePosition == "right" {
		b.WriteString(img)
	}
	b.WriteString(`<span class="rpr-instruction-text">` + text + `</span>`)
	if r.Opts.InstructionImagePosition != "right" {
		b.WriteString(img)
	}
	b.WriteString(`</li>`)
	return b.String(), nil
}

func (r *Renderer) instructionImage(ctx context.Context, id int64) (string, error) {
	if id <= 0 || r.Media == nil {
		return "", nil
	}
	asset, err := r.Media.Resolve(ctx, id)
	if terms.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	src := asset.SizeURL(r.Opts.InstructionImageSize)
	if src == "" {
		return "", nil
	}
	return `<img class="rpr-instruction-image rpr-image-` + html.EscapeString(r.Opts.InstructionImagePosition) +
		`" src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(asset.Alt) + `">`, nil
}

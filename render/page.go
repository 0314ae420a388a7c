package render

import (
	"context"
	"html/template"
	"io"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .Canonical}}
<link rel="canonical" href="{{.Canonical}}">
{{- end}}
{{- if .Schema}}
<script type="application/ld+json">{{.Schema}}</script>
{{- end}}
</head>
<body>
<article class="rpr-page">
<h1 class="rpr-recipe-title">{{.Title}}</h1>
{{.Body}}
</article>
</body>
</html>
`))

type pageData struct {
	Title     string
	Canonical string
	Schema    template.JS
	Body      template.HTML
}

// Page writes a standalone document for the recipe. schemaJSON is embedded
// as the ld+json script when non-empty.
func (r *Renderer) Page(ctx context.Context, w io.Writer, rec Recipe, schemaJSON []byte) error {
	body, err := r.Recipe(ctx, rec)
	if err != nil {
		return err
	}
	data := pageData{Body: body, Schema: template.JS(schemaJSON)}
	if rec.Post != nil {
		data.Title = rec.Post.Title
		data.Canonical = rec.Post.Permalink
	}
	return pageTmpl.Execute(w, data)
}

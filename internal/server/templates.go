package server

import "html/template"

type pageData struct {
	Title string
	Body  template.HTML
}

//nolint:gochecknoglobals // Parsed once, read-only afterwards.
var (
	indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Help</title></head>
<body>
<h1>Help topics</h1>
{{- if .}}
<ul class="help-topics">
{{- range .}}
<li><a href="/help/{{.Name}}">{{.Title}}</a>{{if .Description}} <small>{{.Description}}</small>{{end}}</li>
{{- end}}
</ul>
{{- else}}
<p>No help is available.</p>
{{- end}}
</body>
</html>
`))

	pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<p><a href="/help">Help topics</a></p>
{{.Body}}
</body>
</html>
`))
)

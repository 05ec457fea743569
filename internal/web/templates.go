package web

import (
	"embed"
	"html/template"
)

const (
	loginTemplate     = "login.html"
	dashboardTemplate = "dashboard.html"
	confirmTemplate   = "confirm.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// parseTemplates loads the embedded page templates
func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

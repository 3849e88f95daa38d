// Package web holds the embedded page templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Funcs are available to every template
var Funcs = template.FuncMap{
	"daysAgo": DaysAgo,
}

// Templates parses the embedded templates
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// DaysAgo renders a day count relative to today
func DaysAgo(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

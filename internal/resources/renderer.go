package resources

import (
	"bytes"
	"fmt"
	"html/template"
)

// Renderer turns module template text plus a context object into markup.
type Renderer interface {
	Render(templateText string, context interface{}) (string, error)
}

// HTMLRenderer renders with the standard html/template engine.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{} }

func (r *HTMLRenderer) Render(templateText string, context interface{}) (string, error) {
	tmpl, err := template.New("panel").Parse(templateText)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

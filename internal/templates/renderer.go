package templates

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"
)

// Renderer substitutes a string context into repository templates. Every
// variable a template references must be present in the context.
type Renderer struct {
	repo  Repository
	funcs template.FuncMap
	log   *logrus.Entry
}

// NewRenderer constructs a renderer over repo.
func NewRenderer(repo Repository, logger *logrus.Logger) *Renderer {
	return &Renderer{
		repo:  repo,
		funcs: Funcs(),
		log:   logger.WithField("component", "templates"),
	}
}

// Funcs returns the helper functions available to template bodies.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"toLower": strings.ToLower,
		"toUpper": strings.ToUpper,
		"join":    strings.Join,
		"repeat":  strings.Repeat,
	}
}

// Render looks up id and executes it against ctx.
func (r *Renderer) Render(id string, ctx map[string]string) (string, error) {
	body, err := r.repo.Lookup(id)
	if err != nil {
		r.log.WithError(err).WithField("template", id).Warn("Template lookup failed")
		return "", err
	}

	tmpl, err := template.New(id).Option("missingkey=error").Funcs(r.funcs).Parse(body)
	if err != nil {
		return "", &RenderError{ID: id, Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", &RenderError{ID: id, Err: err}
	}

	r.log.WithFields(logrus.Fields{
		"action":   "render",
		"template": id,
		"bytes":    buf.Len(),
	}).Info("Template rendered")
	return buf.String(), nil
}

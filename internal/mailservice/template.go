package mailservice

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// Rendered is one notification with its three parts filled in.
type Rendered struct {
	Subject string
	Plain   string
	HTML    string
}

func NewTemplate() *Template {
	return &Template{}
}

// Render executes the subject, plainBody and htmlBody blocks of the named template.
func (tp *Template) Render(name string, data any) (*Rendered, error) {
	t, err := template.New("email").ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("could not parse template: %w", err)
	}

	exec := func(block string) (string, error) {
		var sb strings.Builder
		if err := t.ExecuteTemplate(&sb, block, data); err != nil {
			return "", fmt.Errorf("could not render %s of %s: %w", block, name, err)
		}
		return strings.TrimSpace(sb.String()), nil
	}

	var r Rendered
	if r.Subject, err = exec("subject"); err != nil {
		return nil, err
	}
	if r.Plain, err = exec("plainBody"); err != nil {
		return nil, err
	}
	if r.HTML, err = exec("htmlBody"); err != nil {
		return nil, err
	}

	return &r, nil
}

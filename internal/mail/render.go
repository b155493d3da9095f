// Package mail renders templates for contacts and delivers campaigns.
package mail

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"crmdash/internal/model"
)

// ErrEmptyBody is returned by Validate for a template without a body.
var ErrEmptyBody = errors.New("template body is empty")

// Variables are the fields available to templates, e.g. {{.FirstName}}.
type Variables struct {
	FirstName  string
	LastName   string
	FullName   string
	Email      string
	Company    string
	SenderName string
}

// VariablesFor builds the template variables for one recipient.
func VariablesFor(c model.Contact, senderName string) Variables {
	return Variables{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		FullName:   c.FullName(),
		Email:      c.Email,
		Company:    c.Company,
		SenderName: senderName,
	}
}

// SampleVariables is the data used for previews and validation.
func SampleVariables() Variables {
	return Variables{
		FirstName:  "Jane",
		LastName:   "Doe",
		FullName:   "Jane Doe",
		Email:      "jane.doe@example.com",
		Company:    "Example Co",
		SenderName: "The Team",
	}
}

// VariableNames lists the placeholders shown in the template form.
func VariableNames() []string {
	return []string{"{{.FirstName}}", "{{.LastName}}", "{{.FullName}}", "{{.Email}}", "{{.Company}}", "{{.SenderName}}"}
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

// Renderer renders subjects as text and bodies as HTML.
type Renderer struct{}

// NewRenderer creates a new template renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderSubject renders a subject line.
func (r *Renderer) RenderSubject(subject string, vars Variables) (string, error) {
	tmpl, err := texttemplate.New("subject").Option("missingkey=error").Parse(subject)
	if err != nil {
		return "", fmt.Errorf("failed to parse subject template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute subject template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// RenderBody renders an HTML body.
func (r *Renderer) RenderBody(body string, vars Variables) (string, error) {
	tmpl, err := htmltemplate.New("body").Option("missingkey=error").Parse(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse body template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute body template: %w", err)
	}
	return buf.String(), nil
}

// Render produces the message for one recipient.
func (r *Renderer) Render(t model.Template, vars Variables) (Message, error) {
	subject, err := r.RenderSubject(t.Subject, vars)
	if err != nil {
		return Message{}, err
	}
	body, err := r.RenderBody(t.Body, vars)
	if err != nil {
		return Message{}, err
	}
	return Message{To: vars.Email, Subject: subject, Body: body, IsHTML: true}, nil
}

// Preview renders t with sample variables.
func (r *Renderer) Preview(t model.Template) (Message, error) {
	return r.Render(t, SampleVariables())
}

// Validate reports whether t parses and renders against the known
// variables.
func (r *Renderer) Validate(t model.Template) error {
	if strings.TrimSpace(t.Body) == "" {
		return ErrEmptyBody
	}
	if _, err := r.Preview(t); err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}
	return nil
}

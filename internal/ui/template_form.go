package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/app"
	"crmdash/internal/db"
	"crmdash/internal/mail"
	"crmdash/internal/model"
)

const (
	templateName = iota
	templateKind
	templateSubject
)

// TemplateFormModel adds or edits a template. Email templates must render
// against the sample recipient before they can be saved.
type TemplateFormModel struct {
	ctx        *app.Context
	templateID int64
	form       form
}

// NewTemplateFormModel creates an empty template form.
func NewTemplateFormModel(ctx *app.Context) *TemplateFormModel {
	kind := newInput("newsletter, ecard or social", 12)
	kind.SetValue(string(model.KindNewsletter))
	f := newForm("New template",
		formField{"Name *", newInput("Spring newsletter", 100)},
		formField{"Kind", kind},
		formField{"Subject", newInput("Hello {{.FirstName}}", 200)},
	)
	f.withBody("Body * (variables: "+strings.Join(mail.VariableNames(), ", ")+")", "<p>Hi {{.FirstName}},</p>")
	return &TemplateFormModel{ctx: ctx, form: f}
}

// LoadTemplate fills the form for editing t.
func (m *TemplateFormModel) LoadTemplate(t model.Template) {
	m.templateID = t.ID
	m.form.title = "Edit " + t.Name
	m.form.fields[templateName].input.SetValue(t.Name)
	m.form.fields[templateKind].input.SetValue(string(t.Kind))
	m.form.fields[templateSubject].input.SetValue(t.Subject)
	m.form.body.SetValue(t.Body)
}

// Update handles input.
func (m TemplateFormModel) Update(msg tea.Msg) (TemplateFormModel, tea.Cmd) {
	cmd := m.form.handleKey(msg, func() tea.Cmd {
		t, err := m.validate()
		if err != nil {
			m.form.error = err.Error()
			return nil
		}
		m.form.error = ""
		return m.save(t)
	})
	return m, cmd
}

// View renders the form.
func (m *TemplateFormModel) View(width, height int) string {
	return m.form.View(width, height)
}

func (m *TemplateFormModel) validate() (model.UpdateTemplate, error) {
	t := model.UpdateTemplate{
		ID:      m.templateID,
		Name:    m.form.value(templateName),
		Kind:    model.TemplateKind(strings.ToLower(m.form.value(templateKind))),
		Subject: m.form.value(templateSubject),
		Body:    strings.TrimSpace(m.form.bodyValue()),
	}
	if t.Name == "" {
		return t, errors.New("name is required")
	}
	if !model.ValidTemplateKind(string(t.Kind)) {
		return t, errors.New("kind must be newsletter, ecard or social")
	}
	if t.Kind != model.KindSocial && t.Subject == "" {
		return t, errors.New("email templates need a subject")
	}
	err := m.ctx.Mailer.Renderer().Validate(model.Template{Kind: t.Kind, Subject: t.Subject, Body: t.Body})
	if err != nil {
		return t, err
	}
	return t, nil
}

func (m *TemplateFormModel) save(t model.UpdateTemplate) tea.Cmd {
	database := m.ctx.DB
	return func() tea.Msg {
		if t.ID > 0 {
			before, err := db.GetTemplate(database, t.ID)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			if err := db.UpdateTemplate(database, t); err != nil {
				return model.ErrorMsg{Err: err}
			}
			after, err := db.GetTemplate(database, t.ID)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.TemplateSavedMsg{ID: t.ID, Operation: "update", Before: &before, After: after}
		}

		id, err := db.InsertTemplate(database, model.NewTemplate{Name: t.Name, Kind: t.Kind, Subject: t.Subject, Body: t.Body})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		after, err := db.GetTemplate(database, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.TemplateSavedMsg{ID: id, Operation: "insert", After: after}
	}
}

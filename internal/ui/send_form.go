package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/app"
	"crmdash/internal/mail"
	"crmdash/internal/model"
	"crmdash/internal/util"
)

// SendFormModel picks an email template by id and sends it to the
// recipients chosen on the contacts screen.
type SendFormModel struct {
	ctx        *app.Context
	recipients []model.Contact
	templates  []model.Template
	form       form
	sending    bool
}

// NewSendFormModel creates the send form.
func NewSendFormModel(ctx *app.Context) *SendFormModel {
	return &SendFormModel{
		ctx:  ctx,
		form: newForm("Send campaign", formField{"Template ID *", newInput("e.g. 1", 10)}),
	}
}

// Open resets the form for a new send.
func (m *SendFormModel) Open(recipients []model.Contact, templates []model.Template) {
	m.recipients = recipients
	m.templates = m.templates[:0]
	for _, t := range templates {
		if t.Kind != model.KindSocial {
			m.templates = append(m.templates, t)
		}
	}
	m.sending = false
	m.form.error = ""
	m.form.fields[0].input.SetValue("")
	if len(m.templates) > 0 {
		m.form.fields[0].input.SetValue(strconv.FormatInt(m.templates[0].ID, 10))
	}
	m.form.focus(0)
}

// Sending reports whether a send is in flight.
func (m *SendFormModel) Sending() bool { return m.sending }

// Done clears the in-flight flag.
func (m *SendFormModel) Done() { m.sending = false }

// Update handles input.
func (m SendFormModel) Update(msg tea.Msg) (SendFormModel, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	cmd := m.form.handleKey(msg, func() tea.Cmd {
		t, err := m.selected()
		if err != nil {
			m.form.error = err.Error()
			return nil
		}
		if len(m.recipients) == 0 {
			m.form.error = mail.ErrNoRecipients.Error()
			return nil
		}
		m.form.error = ""
		m.sending = true
		return tea.Batch(
			msgCmd(model.StatusMsg{Text: "Sending to " + util.Plural(len(m.recipients), "recipient") + "..."}),
			sendCampaignCmd(m.ctx.Mailer, t, m.recipients, m.ctx.CurrentUser),
		)
	})
	return m, cmd
}

func (m *SendFormModel) selected() (model.Template, error) {
	raw := m.form.value(0)
	if raw == "" {
		return model.Template{}, errors.New("template id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return model.Template{}, fmt.Errorf("invalid template id %q", raw)
	}
	for _, t := range m.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Template{}, fmt.Errorf("no email template with id %d", id)
}

// View renders the template list, a subject preview and the id input.
func (m *SendFormModel) View(width, height int) string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("To: "))
	b.WriteString(recipientSummary(m.recipients))
	b.WriteString("\n\n")

	if len(m.templates) == 0 {
		b.WriteString(EmptyStateStyle.Render("No email templates. Add one on the Templates tab."))
	}
	chosen, chosenErr := m.selected()
	for _, t := range m.templates {
		line := fmt.Sprintf("%3d  %-24s %s", t.ID, util.TruncateString(t.Name, 24), t.Kind)
		if chosenErr == nil && t.ID == chosen.ID {
			b.WriteString(MenuActiveStyle.Render("▸ " + line))
		} else {
			b.WriteString(MenuItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if chosenErr == nil && len(m.recipients) > 0 {
		vars := mail.VariablesFor(m.recipients[0], m.ctx.CurrentUser.Name)
		if subject, err := m.ctx.Mailer.Renderer().RenderSubject(chosen.Subject, vars); err == nil {
			b.WriteString("\n" + LabelStyle.Render("Subject: ") + subject)
		}
	}
	if m.sending {
		b.WriteString("\n" + SuccessStyle.Render("Sending..."))
	}
	return m.form.View(width, height, b.String())
}

func recipientSummary(contacts []model.Contact) string {
	const shown = 3
	names := make([]string, 0, shown)
	for i, c := range contacts {
		if i == shown {
			break
		}
		names = append(names, c.FullName())
	}
	s := strings.Join(names, ", ")
	if extra := len(contacts) - shown; extra > 0 {
		s += fmt.Sprintf(" and %d more", extra)
	}
	return s
}

package ui

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/db"
	"crmdash/internal/model"
	"crmdash/internal/util"
)

const (
	contactFirstName = iota
	contactLastName
	contactEmail
	contactPhone
	contactCompany
	contactTags
	contactSubscribed
)

// ContactFormModel adds or edits a contact. The phone field is formatted
// as the user types.
type ContactFormModel struct {
	db        *sql.DB
	contactID int64
	form      form
}

// NewContactFormModel creates an empty contact form.
func NewContactFormModel(database *sql.DB) *ContactFormModel {
	subscribed := newInput("yes or no", 3)
	subscribed.SetValue("yes")
	return &ContactFormModel{
		db: database,
		form: newForm("New contact",
			formField{"First Name *", newInput("First name", 100)},
			formField{"Last Name", newInput("Last name", 100)},
			formField{"Email *", newInput("name@example.com", 200)},
			formField{"Phone", newInput("(858) 369-5555", 20)},
			formField{"Company", newInput("Company", 100)},
			formField{"Tags", newInput("comma, separated", 200)},
			formField{"Subscribed", subscribed},
		),
	}
}

// LoadContact fills the form for editing c.
func (m *ContactFormModel) LoadContact(c model.Contact) {
	m.contactID = c.ID
	m.form.title = "Edit " + c.FullName()
	m.form.fields[contactFirstName].input.SetValue(c.FirstName)
	m.form.fields[contactLastName].input.SetValue(c.LastName)
	m.form.fields[contactEmail].input.SetValue(c.Email)
	m.form.fields[contactPhone].input.SetValue(util.AutoFormat(c.Phone))
	m.form.fields[contactCompany].input.SetValue(c.Company)
	m.form.fields[contactTags].input.SetValue(c.Tags)
	m.form.fields[contactSubscribed].input.SetValue(yesNo(c.Subscribed))
}

// Update handles input.
func (m ContactFormModel) Update(msg tea.Msg) (ContactFormModel, tea.Cmd) {
	cmd := m.form.handleKey(msg, func() tea.Cmd {
		c, err := m.validate()
		if err != nil {
			m.form.error = err.Error()
			return nil
		}
		m.form.error = ""
		return m.save(c)
	})
	if m.form.focused == contactPhone {
		phone := &m.form.fields[contactPhone].input
		if formatted := util.AutoFormat(phone.Value()); formatted != phone.Value() {
			phone.SetValue(formatted)
			phone.CursorEnd()
		}
	}
	return m, cmd
}

// View renders the form.
func (m *ContactFormModel) View(width, height int) string {
	return m.form.View(width, height)
}

func (m *ContactFormModel) validate() (model.UpdateContact, error) {
	c := model.UpdateContact{
		ID:        m.contactID,
		FirstName: m.form.value(contactFirstName),
		LastName:  m.form.value(contactLastName),
		Email:     strings.ToLower(m.form.value(contactEmail)),
		Phone:     m.form.value(contactPhone),
		Company:   m.form.value(contactCompany),
		Tags:      normalizeTags(m.form.value(contactTags)),
	}
	if c.FirstName == "" {
		return c, errors.New("first name is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, fmt.Errorf("invalid email %q", c.Email)
	}
	if c.Phone != "" && !util.IsValidPhoneNumber(c.Phone) {
		return c, errors.New("phone must be a 10 digit US number")
	}
	subscribed, ok := parseYesNo(m.form.value(contactSubscribed), true)
	if !ok {
		return c, errors.New("subscribed must be yes or no")
	}
	c.Subscribed = subscribed
	return c, nil
}

func (m *ContactFormModel) save(c model.UpdateContact) tea.Cmd {
	database := m.db
	return func() tea.Msg {
		if c.ID > 0 {
			before, err := db.GetContact(database, c.ID)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			if err := db.UpdateContact(database, c); err != nil {
				return model.ErrorMsg{Err: err}
			}
			after, err := db.GetContact(database, c.ID)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.ContactSavedMsg{ID: c.ID, Operation: "update", Before: &before, After: after}
		}

		id, err := db.InsertContact(database, model.NewContact{
			FirstName:  c.FirstName,
			LastName:   c.LastName,
			Email:      c.Email,
			Phone:      c.Phone,
			Company:    c.Company,
			Tags:       c.Tags,
			Subscribed: c.Subscribed,
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		after, err := db.GetContact(database, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ContactSavedMsg{ID: id, Operation: "insert", After: after}
	}
}

// normalizeTags trims each comma separated tag and drops empties.
func normalizeTags(s string) string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return strings.Join(tags, ", ")
}

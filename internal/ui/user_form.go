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
)

const (
	userName = iota
	userEmail
	userRole
	userActive
)

// UserFormModel adds or edits a dashboard user.
type UserFormModel struct {
	db     *sql.DB
	userID int64
	form   form
}

// NewUserFormModel creates an empty user form.
func NewUserFormModel(database *sql.DB) *UserFormModel {
	role := newInput("admin, editor or viewer", 10)
	role.SetValue(string(model.RoleViewer))
	active := newInput("yes or no", 3)
	active.SetValue("yes")
	return &UserFormModel{
		db: database,
		form: newForm("New user",
			formField{"Name *", newInput("Full name", 100)},
			formField{"Email *", newInput("name@example.com", 200)},
			formField{"Role", role},
			formField{"Active", active},
		),
	}
}

// LoadUser fills the form for editing u.
func (m *UserFormModel) LoadUser(u model.User) {
	m.userID = u.ID
	m.form.title = "Edit " + u.Name
	m.form.fields[userName].input.SetValue(u.Name)
	m.form.fields[userEmail].input.SetValue(u.Email)
	m.form.fields[userRole].input.SetValue(string(u.Role))
	m.form.fields[userActive].input.SetValue(yesNo(u.Active))
}

// Update handles input.
func (m UserFormModel) Update(msg tea.Msg) (UserFormModel, tea.Cmd) {
	cmd := m.form.handleKey(msg, func() tea.Cmd {
		u, err := m.validate()
		if err != nil {
			m.form.error = err.Error()
			return nil
		}
		m.form.error = ""
		return m.save(u)
	})
	return m, cmd
}

// View renders the form.
func (m *UserFormModel) View(width, height int) string {
	return m.form.View(width, height)
}

func (m *UserFormModel) validate() (model.UpdateUser, error) {
	u := model.UpdateUser{
		ID:    m.userID,
		Name:  m.form.value(userName),
		Email: strings.ToLower(m.form.value(userEmail)),
		Role:  model.Role(strings.ToLower(m.form.value(userRole))),
	}
	if u.Name == "" {
		return u, errors.New("name is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return u, fmt.Errorf("invalid email %q", u.Email)
	}
	if !model.ValidRole(string(u.Role)) {
		return u, errors.New("role must be admin, editor or viewer")
	}
	active, ok := parseYesNo(m.form.value(userActive), true)
	if !ok {
		return u, errors.New("active must be yes or no")
	}
	u.Active = active
	return u, nil
}

func (m *UserFormModel) save(u model.UpdateUser) tea.Cmd {
	database := m.db
	return func() tea.Msg {
		if u.ID > 0 {
			before, err := db.GetUser(database, u.ID)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			if err := db.UpdateUser(database, u); err != nil {
				return model.ErrorMsg{Err: err}
			}
			after := before
			after.Name, after.Email, after.Role, after.Active = u.Name, u.Email, u.Role, u.Active
			return model.UserSavedMsg{ID: u.ID, Operation: "update", Before: &before, After: after}
		}

		id, err := db.InsertUser(database, model.NewUser{Name: u.Name, Email: u.Email, Role: u.Role, Active: u.Active})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		after, err := db.GetUser(database, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.UserSavedMsg{ID: id, Operation: "insert", After: after}
	}
}

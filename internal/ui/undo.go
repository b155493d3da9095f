package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/db"
	"crmdash/internal/model"
	"crmdash/internal/util"
)

// maxUndo bounds the undo history.
const maxUndo = 50

type undoAction struct {
	label string
	undo  func() error
	redo  func() error
}

type undoAppliedMsg struct {
	err       error
	action    undoAction
	direction string // undo, redo
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	if len(m.undoStack) > maxUndo {
		m.undoStack = m.undoStack[len(m.undoStack)-maxUndo:]
	}
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	return func() tea.Msg {
		err := action.undo()
		return undoAppliedMsg{err: err, action: action, direction: "undo"}
	}
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	return func() tea.Msg {
		err := action.redo()
		return undoAppliedMsg{err: err, action: action, direction: "redo"}
	}
}

func (m *Model) buildUserSaveAction(msg model.UserSavedMsg) *undoAction {
	database := m.ctx.DB
	switch msg.Operation {
	case "insert":
		after := msg.After
		return &undoAction{
			label: "user added",
			undo: func() error {
				return db.DeleteUsers(database, []int64{after.ID})
			},
			redo: func() error {
				return db.InsertUserWithID(database, after)
			},
		}
	case "update":
		if msg.Before == nil {
			return nil
		}
		before := *msg.Before
		after := msg.After
		return &undoAction{
			label: "user updated",
			undo: func() error {
				return db.UpdateUser(database, userToUpdate(before))
			},
			redo: func() error {
				return db.UpdateUser(database, userToUpdate(after))
			},
		}
	default:
		return nil
	}
}

func (m *Model) buildContactSaveAction(msg model.ContactSavedMsg) *undoAction {
	database := m.ctx.DB
	switch msg.Operation {
	case "insert":
		after := msg.After
		return &undoAction{
			label: "contact added",
			undo: func() error {
				return db.DeleteContacts(database, []int64{after.ID})
			},
			redo: func() error {
				return db.InsertContactWithID(database, after)
			},
		}
	case "update":
		if msg.Before == nil {
			return nil
		}
		before := *msg.Before
		after := msg.After
		return &undoAction{
			label: "contact updated",
			undo: func() error {
				return db.UpdateContact(database, contactToUpdate(before))
			},
			redo: func() error {
				return db.UpdateContact(database, contactToUpdate(after))
			},
		}
	default:
		return nil
	}
}

func (m *Model) buildTemplateSaveAction(msg model.TemplateSavedMsg) *undoAction {
	database := m.ctx.DB
	switch msg.Operation {
	case "insert":
		after := msg.After
		return &undoAction{
			label: "template added",
			undo: func() error {
				return db.DeleteTemplate(database, after.ID)
			},
			redo: func() error {
				return db.InsertTemplateWithID(database, after)
			},
		}
	case "update":
		if msg.Before == nil {
			return nil
		}
		before := *msg.Before
		after := msg.After
		return &undoAction{
			label: "template updated",
			undo: func() error {
				return db.UpdateTemplate(database, templateToUpdate(before))
			},
			redo: func() error {
				return db.UpdateTemplate(database, templateToUpdate(after))
			},
		}
	default:
		return nil
	}
}

func (m *Model) buildDeleteUsersAction(msg model.DeleteUsersMsg) undoAction {
	database := m.ctx.DB
	deleted := append([]model.User(nil), msg.Deleted...)
	ids := make([]int64, 0, len(deleted))
	for _, u := range deleted {
		ids = append(ids, u.ID)
	}
	return undoAction{
		label: util.Plural(len(deleted), "user") + " deleted",
		undo: func() error {
			return db.RestoreUsers(database, deleted)
		},
		redo: func() error {
			return db.DeleteUsers(database, ids)
		},
	}
}

func (m *Model) buildDeleteContactsAction(msg model.DeleteContactsMsg) undoAction {
	database := m.ctx.DB
	deleted := append([]model.Contact(nil), msg.Deleted...)
	ids := contactIDs(deleted)
	return undoAction{
		label: util.Plural(len(deleted), "contact") + " deleted",
		undo: func() error {
			return db.RestoreContacts(database, deleted)
		},
		redo: func() error {
			return db.DeleteContacts(database, ids)
		},
	}
}

func (m *Model) buildDeleteTemplateAction(msg model.DeleteTemplateMsg) undoAction {
	database := m.ctx.DB
	deleted := msg.Deleted
	return undoAction{
		label: "template deleted",
		undo: func() error {
			return db.InsertTemplateWithID(database, deleted)
		},
		redo: func() error {
			return db.DeleteTemplate(database, deleted.ID)
		},
	}
}

func userToUpdate(u model.User) model.UpdateUser {
	return model.UpdateUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Active: u.Active,
	}
}

func contactToUpdate(c model.Contact) model.UpdateContact {
	return model.UpdateContact{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Company:    c.Company,
		Tags:       c.Tags,
		Subscribed: c.Subscribed,
	}
}

func templateToUpdate(t model.Template) model.UpdateTemplate {
	return model.UpdateTemplate{
		ID:      t.ID,
		Name:    t.Name,
		Kind:    t.Kind,
		Subject: t.Subject,
		Body:    t.Body,
	}
}

func (m *Model) applyUndoResult(msg undoAppliedMsg) tea.Cmd {
	if msg.err != nil {
		m.error = fmt.Sprintf("%s failed: %v", msg.direction, msg.err)
		return nil
	}

	if msg.direction == "undo" {
		m.redoStack = append(m.redoStack, msg.action)
		m.info = "Undid: " + msg.action.label
	} else {
		m.undoStack = append(m.undoStack, msg.action)
		m.info = "Redid: " + msg.action.label
	}
	m.error = ""
	return m.reloadAllCmd()
}

package ui

import (
	"errors"

	"crmdash/internal/model"
)

var (
	errReadOnly   = errors.New("viewers cannot change data")
	errAdminOnly  = errors.New("only admins can manage users")
	errDeleteSelf = errors.New("you cannot delete your own account")
)

// canEdit reports whether u may change contacts, templates and campaigns.
func canEdit(u model.User) error {
	if !u.Active || u.Role == model.RoleViewer {
		return errReadOnly
	}
	return nil
}

func canManageUsers(u model.User) error {
	if !u.Active || u.Role != model.RoleAdmin {
		return errAdminOnly
	}
	return nil
}

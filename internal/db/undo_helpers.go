package db

import (
	"database/sql"
	"fmt"

	"crmdash/internal/model"
)

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// InsertUserWithID restores a deleted user under its original ID.
func InsertUserWithID(db *sql.DB, u model.User) error {
	return insertUserWithID(db, u)
}

func insertUserWithID(ex execer, u model.User) error {
	query := `
		INSERT INTO users (id, name, email, role, active, last_login_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := ex.Exec(query, u.ID, u.Name, u.Email, string(u.Role), boolInt(u.Active),
		formatTimePtr(u.LastLoginAt), formatTime(u.CreatedAt)); err != nil {
		return fmt.Errorf("failed to insert user with id: %w", err)
	}
	return nil
}

// InsertContactWithID restores a deleted contact under its original ID.
func InsertContactWithID(db *sql.DB, c model.Contact) error {
	return insertContactWithID(db, c)
}

func insertContactWithID(ex execer, c model.Contact) error {
	query := `
		INSERT INTO contacts (id, first_name, last_name, email, phone, company, tags, subscribed, last_emailed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := ex.Exec(query, c.ID, c.FirstName, nullable(c.LastName), c.Email, nullable(c.Phone),
		nullable(c.Company), nullable(c.Tags), boolInt(c.Subscribed), formatTimePtr(c.LastEmailedAt),
		formatTime(c.CreatedAt)); err != nil {
		return fmt.Errorf("failed to insert contact with id: %w", err)
	}
	return nil
}

// InsertTemplateWithID restores a deleted template under its original ID.
func InsertTemplateWithID(db *sql.DB, t model.Template) error {
	query := `
		INSERT INTO templates (id, name, kind, subject, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	updated := t.UpdatedAt
	if updated.IsZero() {
		updated = t.CreatedAt
	}
	if _, err := db.Exec(query, t.ID, t.Name, string(t.Kind), nullable(t.Subject), t.Body,
		formatTime(t.CreatedAt), formatTime(updated)); err != nil {
		return fmt.Errorf("failed to insert template with id: %w", err)
	}
	return nil
}

// RestoreUsers re-inserts deleted users in one transaction.
func RestoreUsers(db *sql.DB, users []model.User) error {
	return inTx(db, func(tx *sql.Tx) error {
		for _, u := range users {
			if err := insertUserWithID(tx, u); err != nil {
				return err
			}
		}
		return nil
	})
}

// RestoreContacts re-inserts deleted contacts in one transaction.
func RestoreContacts(db *sql.DB, contacts []model.Contact) error {
	return inTx(db, func(tx *sql.Tx) error {
		for _, c := range contacts {
			if err := insertContactWithID(tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func inTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

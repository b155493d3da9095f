package db

import (
	"database/sql"
	"fmt"
	"time"

	"crmdash/internal/model"
)

const templateColumns = `id, name, kind, subject, body, created_at, updated_at`

func scanTemplate(s rowScanner) (model.Template, error) {
	var t model.Template
	var kind string
	var subject sql.NullString
	var createdAt, updatedAt string
	if err := s.Scan(&t.ID, &t.Name, &kind, &subject, &t.Body, &createdAt, &updatedAt); err != nil {
		return model.Template{}, err
	}
	t.Kind = model.TemplateKind(kind)
	t.Subject = subject.String
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

// ListTemplates retrieves all templates, most recently updated first.
func ListTemplates(db *sql.DB) ([]model.Template, error) {
	rows, err := db.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var results []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}
	return results, nil
}

// GetTemplate retrieves a single template by ID.
func GetTemplate(db *sql.DB, id int64) (model.Template, error) {
	t, err := scanTemplate(db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if err != nil {
		return model.Template{}, notFound(err, "template")
	}
	return t, nil
}

// InsertTemplate creates a new template.
func InsertTemplate(db *sql.DB, t model.NewTemplate) (int64, error) {
	result, err := db.Exec(`INSERT INTO templates (name, kind, subject, body) VALUES (?, ?, ?, ?)`,
		t.Name, string(t.Kind), nullable(t.Subject), t.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to insert template: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// UpdateTemplate updates an existing template and bumps updated_at.
func UpdateTemplate(db *sql.DB, t model.UpdateTemplate) error {
	res, err := db.Exec(`UPDATE templates SET name = ?, kind = ?, subject = ?, body = ?, updated_at = ? WHERE id = ?`,
		t.Name, string(t.Kind), nullable(t.Subject), t.Body, formatTime(time.Now()), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return requireAffected(res, "template")
}

// DeleteTemplate deletes a template. Campaigns sent from it keep their
// recipients and show the template as deleted.
func DeleteTemplate(db *sql.DB, id int64) error {
	if _, err := db.Exec(`DELETE FROM templates WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

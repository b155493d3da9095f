package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"crmdash/internal/model"
	"crmdash/internal/util"
)

const contactColumns = `id, first_name, last_name, email, phone, company, tags, subscribed, last_emailed_at, created_at`

// contactFields maps contact column IDs to the SQL expression they filter
// and sort on. IDs not listed here are ignored.
var contactFields = map[string]string{
	"id":              "id",
	"first_name":      "first_name",
	"last_name":       "COALESCE(last_name, '')",
	"full_name":       "first_name || ' ' || COALESCE(last_name, '')",
	"email":           "email",
	"phone":           "COALESCE(phone, '')",
	"company":         "COALESCE(company, '')",
	"tags":            "COALESCE(tags, '')",
	"subscribed":      "CASE subscribed WHEN 1 THEN 'yes' ELSE 'no' END",
	"last_emailed_at": "COALESCE(last_emailed_at, '')",
	"created_at":      "created_at",
}

// nullableContactColumns are sorted on the raw column so NULLs can be
// ordered explicitly.
var nullableContactColumns = map[string]string{
	"last_name":       "last_name",
	"phone":           "phone",
	"company":         "company",
	"tags":            "tags",
	"last_emailed_at": "last_emailed_at",
}

// contactSearchFields are matched by ContactQuery.Search.
var contactSearchFields = []string{"full_name", "email", "phone", "company"}

func scanContact(s rowScanner) (model.Contact, error) {
	var c model.Contact
	var lastName, phone, company, tags, lastEmailed sql.NullString
	var subscribed int
	var createdAt string
	if err := s.Scan(&c.ID, &c.FirstName, &lastName, &c.Email, &phone, &company, &tags, &subscribed, &lastEmailed, &createdAt); err != nil {
		return model.Contact{}, err
	}
	c.LastName = lastName.String
	c.Phone = phone.String
	c.Company = company.String
	c.Tags = tags.String
	c.Subscribed = subscribed == 1
	c.LastEmailedAt = parseTimePtr(lastEmailed)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// likePattern escapes LIKE wildcards in s and wraps it in %...%.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// buildContactQuery translates q into SQL and arguments.
func buildContactQuery(q model.ContactQuery) (string, []interface{}) {
	var where []string
	var args []interface{}

	for _, id := range sortedKeys(q.Filters) {
		expr, ok := contactFields[id]
		value := strings.TrimSpace(q.Filters[id])
		if !ok || value == "" {
			continue
		}
		if id == "phone" {
			if value = util.Digits(value); value == "" {
				continue
			}
		}
		where = append(where, expr+` LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(value))
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		var ors []string
		for _, id := range contactSearchFields {
			term := s
			if d := util.Digits(s); id == "phone" && d != "" {
				term = d
			}
			ors = append(ors, contactFields[id]+` LIKE ? ESCAPE '\'`)
			args = append(args, likePattern(term))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + contactColumns + ` FROM contacts`)
	if len(where) > 0 {
		b.WriteString(` WHERE ` + strings.Join(where, " AND "))
	}

	var order []string
	for _, s := range q.Sort {
		expr, ok := contactFields[s.Column]
		if !ok {
			continue
		}
		if col, ok := nullableContactColumns[s.Column]; ok {
			// Missing values go last in both directions.
			order = append(order, col+" IS NULL")
			expr = col
		}
		if s.Column != "id" && s.Column != "created_at" {
			expr += " COLLATE NOCASE"
		}
		if s.Desc {
			expr += " DESC"
		}
		order = append(order, expr)
	}
	order = append(order, "id")
	b.WriteString(` ORDER BY ` + strings.Join(order, ", "))

	if q.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}
	return b.String(), args
}

// ListContacts retrieves contacts matching q. Column filters are ANDed
// substring matches, Search matches any of name, email, phone or company,
// and unknown filter or sort columns are ignored.
func ListContacts(db *sql.DB, q model.ContactQuery) ([]model.Contact, error) {
	query, args := buildContactQuery(q)
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var results []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return results, nil
}

// GetContact retrieves a single contact by ID.
func GetContact(db *sql.DB, id int64) (model.Contact, error) {
	c, err := scanContact(db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil {
		return model.Contact{}, notFound(err, "contact")
	}
	return c, nil
}

// InsertContact creates a new contact. Phone is stored as national digits.
func InsertContact(db *sql.DB, c model.NewContact) (int64, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone, company, tags, subscribed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := db.Exec(query, c.FirstName, nullable(c.LastName), c.Email, nullable(util.NormalizePhone(c.Phone)),
		nullable(c.Company), nullable(c.Tags), boolInt(c.Subscribed))
	if err != nil {
		return 0, fmt.Errorf("failed to insert contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// UpdateContact updates an existing contact.
func UpdateContact(db *sql.DB, c model.UpdateContact) error {
	query := `
		UPDATE contacts
		SET first_name = ?, last_name = ?, email = ?, phone = ?, company = ?, tags = ?, subscribed = ?
		WHERE id = ?
	`
	res, err := db.Exec(query, c.FirstName, nullable(c.LastName), c.Email, nullable(util.NormalizePhone(c.Phone)),
		nullable(c.Company), nullable(c.Tags), boolInt(c.Subscribed), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return requireAffected(res, "contact")
}

// DeleteContacts deletes the given contacts.
func DeleteContacts(db *sql.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM contacts WHERE id IN (` + placeholders(len(ids)) + `)`
	if _, err := db.Exec(query, int64Args(ids)...); err != nil {
		return fmt.Errorf("failed to delete contacts: %w", err)
	}
	return nil
}

// markContactsEmailed stamps last_emailed_at on the given contacts.
func markContactsEmailed(tx *sql.Tx, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	args := append([]interface{}{formatTime(at)}, int64Args(ids)...)
	query := `UPDATE contacts SET last_emailed_at = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to mark contacts emailed: %w", err)
	}
	return nil
}

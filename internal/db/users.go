package db

import (
	"database/sql"
	"fmt"
	"time"

	"crmdash/internal/model"
)

const userColumns = `id, name, email, role, active, last_login_at, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	var role string
	var active int
	var lastLogin sql.NullString
	var createdAt string
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &role, &active, &lastLogin, &createdAt); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	u.Active = active == 1
	u.LastLoginAt = parseTimePtr(lastLogin)
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// ListUsers retrieves all users ordered by name.
func ListUsers(db *sql.DB) ([]model.User, error) {
	rows, err := db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var results []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return results, nil
}

// GetUser retrieves a single user by ID.
func GetUser(db *sql.DB, id int64) (model.User, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return model.User{}, notFound(err, "user")
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func GetUserByEmail(db *sql.DB, email string) (model.User, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return model.User{}, notFound(err, "user")
	}
	return u, nil
}

// InsertUser creates a new user.
func InsertUser(db *sql.DB, u model.NewUser) (int64, error) {
	role := u.Role
	if role == "" {
		role = model.RoleViewer
	}
	result, err := db.Exec(`INSERT INTO users (name, email, role, active) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, string(role), boolInt(u.Active))
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// UpdateUser updates an existing user.
func UpdateUser(db *sql.DB, u model.UpdateUser) error {
	res, err := db.Exec(`UPDATE users SET name = ?, email = ?, role = ?, active = ? WHERE id = ?`,
		u.Name, u.Email, string(u.Role), boolInt(u.Active), u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res, "user")
}

// TouchUserLogin records a login for the user at the current time.
func TouchUserLogin(db *sql.DB, id int64) error {
	if _, err := db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, formatTime(time.Now()), id); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// DeleteUsers deletes the given users.
func DeleteUsers(db *sql.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM users WHERE id IN (` + placeholders(len(ids)) + `)`
	if _, err := db.Exec(query, int64Args(ids)...); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to update %s: %w", what, ErrNotFound)
	}
	return nil
}

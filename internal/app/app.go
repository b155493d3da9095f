// Package app holds the application context shared by every screen.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"crmdash/internal/db"
	"crmdash/internal/mail"
	"crmdash/internal/model"
	"crmdash/internal/social"
)

// Config is everything Open needs.
type Config struct {
	DBPath    string
	UserEmail string
	PrefsPath string
	PageSize  int
	Seed      bool
	SMTP      mail.SMTPConfig
	Social    social.Config
}

// Context is created once at startup, passed to the UI and closed on exit.
type Context struct {
	DB          *sql.DB
	CurrentUser model.User
	Mailer      *mail.Service
	Social      *social.Generator
	PrefsPath   string
	PageSize    int
}

// Open opens the store, resolves the operator and wires the mailer and
// social generator.
func Open(cfg Config) (*Context, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	user, err := resolveUser(database, cfg.UserEmail)
	if err != nil {
		database.Close()
		return nil, err
	}

	if cfg.Seed {
		if err := Seed(database); err != nil {
			database.Close()
			return nil, err
		}
	}

	var sender mail.Sender
	if cfg.SMTP.Enabled() {
		sender = mail.NewSMTPSender(cfg.SMTP)
	} else {
		log.Printf("SMTP not configured; campaigns go to the outbox")
		sender = mail.NewOutboxSender()
	}

	return &Context{
		DB:          database,
		CurrentUser: user,
		Mailer:      mail.NewService(database, sender),
		Social:      social.NewGenerator(cfg.Social),
		PrefsPath:   cfg.PrefsPath,
		PageSize:    cfg.PageSize,
	}, nil
}

// Close releases the store.
func (c *Context) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	err := c.DB.Close()
	c.DB = nil
	return err
}

// resolveUser finds the operator by email, creating it when missing. The
// first user of an empty store becomes an admin.
func resolveUser(database *sql.DB, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, errors.New("no operator email configured")
	}

	u, err := db.GetUserByEmail(database, email)
	if err == nil {
		if err := db.TouchUserLogin(database, u.ID); err != nil {
			log.Printf("failed to record login for %s: %v", email, err)
		}
		return u, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return model.User{}, err
	}

	existing, err := db.ListUsers(database)
	if err != nil {
		return model.User{}, err
	}
	role := model.RoleViewer
	if len(existing) == 0 {
		role = model.RoleAdmin
	}
	name, _, _ := strings.Cut(email, "@")
	id, err := db.InsertUser(database, model.NewUser{Name: name, Email: email, Role: role, Active: true})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create operator: %w", err)
	}
	if err := db.TouchUserLogin(database, id); err != nil {
		log.Printf("failed to record login for %s: %v", email, err)
	}
	log.Printf("created operator %s with role %s", email, role)
	return db.GetUser(database, id)
}

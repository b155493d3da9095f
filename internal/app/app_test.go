package app

import (
	"path/filepath"
	"testing"

	"crmdash/internal/db"
	"crmdash/internal/model"
)

func TestOpenCreatesOperator(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{DBPath: filepath.Join(dir, "crm.db"), UserEmail: "ops@crm.test", Seed: true}

	ctx, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if ctx.CurrentUser.Role != model.RoleAdmin || ctx.CurrentUser.Name != "ops" || ctx.CurrentUser.LastLoginAt == nil {
		t.Fatalf("operator = %+v", ctx.CurrentUser)
	}
	if !ctx.Mailer.Queues() {
		t.Fatal("mailer without SMTP should queue")
	}
	if ctx.Social.Enabled() {
		t.Fatal("social enabled without key")
	}
	contacts, _ := db.ListContacts(ctx.DB, model.ContactQuery{})
	if len(contacts) != len(seedContacts) {
		t.Fatalf("seeded contacts = %d", len(contacts))
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	// reopening finds the same operator and does not reseed
	cfg.UserEmail = "OPS@crm.test"
	ctx, err = Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ctx.Close()
	contacts, _ = db.ListContacts(ctx.DB, model.ContactQuery{})
	if len(contacts) != len(seedContacts) {
		t.Fatalf("contacts after reopen = %d", len(contacts))
	}
	users, _ := db.ListUsers(ctx.DB)
	if len(users) != 1 {
		t.Fatalf("users = %d", len(users))
	}
}

func TestSecondOperatorIsViewer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.db")
	first, err := Open(Config{DBPath: path, UserEmail: "a@crm.test"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first.Close()

	second, err := Open(Config{DBPath: path, UserEmail: "b@crm.test"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer second.Close()
	if second.CurrentUser.Role != model.RoleViewer {
		t.Fatalf("role = %s", second.CurrentUser.Role)
	}
}

func TestOpenRequiresEmail(t *testing.T) {
	if _, err := Open(Config{DBPath: filepath.Join(t.TempDir(), "crm.db")}); err == nil {
		t.Fatal("expected error without operator email")
	}
}

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var envKeys = []string{
	"CRMDASH_DB", "CRMDASH_USER", "CRMDASH_LOG", "CRMDASH_PAGE_SIZE", "CRMDASH_SEED",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_FROM_EMAIL",
}

// clearEnv unsets every variable parse reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	config, err := parse(nil, "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if config.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", config.PageSize)
	}
	if config.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, want 587", config.SMTP.Port)
	}
	if config.Social.Model != "gpt-4o-mini" {
		t.Errorf("Social.Model = %q", config.Social.Model)
	}
	if config.Seed || config.ShowVersion {
		t.Errorf("unexpected flags: %+v", config)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRMDASH_USER", "env@example.com")
	t.Setenv("CRMDASH_PAGE_SIZE", "50")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	config, err := parse([]string{"-user", " flag@example.com ", "-seed"}, "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if config.UserEmail != "flag@example.com" {
		t.Errorf("UserEmail = %q", config.UserEmail)
	}
	if config.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50 from env", config.PageSize)
	}
	if config.Social.APIKey != "sk-env" {
		t.Errorf("APIKey = %q", config.Social.APIKey)
	}
	if !config.Seed {
		t.Error("Seed not set")
	}
}

func TestParseRejectsBadPageSize(t *testing.T) {
	clearEnv(t)
	if _, err := parse([]string{"-page-size", "0"}, "test"); err == nil {
		t.Fatal("expected error for zero page size")
	}
}

func TestResolvePaths(t *testing.T) {
	home := t.TempDir()
	config := &Config{}
	dir, err := resolvePaths(config, home)
	if err != nil {
		t.Fatalf("resolvePaths: %v", err)
	}
	if want := filepath.Join(home, ".crmdash"); dir != want {
		t.Fatalf("dir = %q, want %q", dir, want)
	}
	if config.DBPath != filepath.Join(dir, "crmdash.db") {
		t.Errorf("DBPath = %q", config.DBPath)
	}
	if config.PrefsPath != filepath.Join(dir, "ui_prefs.json") {
		t.Errorf("PrefsPath = %q", config.PrefsPath)
	}
	if config.LogPath != filepath.Join(dir, "debug.log") {
		t.Errorf("LogPath = %q", config.LogPath)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("config dir not created: %v", err)
	}

	custom := &Config{DBPath: filepath.Join(home, "data", "crm.db"), LogPath: "/tmp/x.log"}
	dir, err = resolvePaths(custom, home)
	if err != nil {
		t.Fatalf("resolvePaths: %v", err)
	}
	if dir != filepath.Join(home, "data") || custom.LogPath != "/tmp/x.log" {
		t.Errorf("custom paths: dir=%q log=%q", dir, custom.LogPath)
	}
}

func TestApplySettings(t *testing.T) {
	dir := t.TempDir()

	if err := applySettings(&Config{}, OnboardingSettings{}, dir); !errors.Is(err, ErrNoOperator) {
		t.Fatalf("err = %v, want ErrNoOperator", err)
	}

	if err := saveSecureOpenAIKey(dir, "  sk-saved  "); err != nil {
		t.Fatalf("save key: %v", err)
	}
	config := &Config{}
	settings := OnboardingSettings{Completed: true, OperatorEmail: "ops@example.com", SocialEnabled: true}
	if err := applySettings(config, settings, dir); err != nil {
		t.Fatalf("applySettings: %v", err)
	}
	if config.UserEmail != "ops@example.com" || config.Social.APIKey != "sk-saved" {
		t.Fatalf("config = %+v", config)
	}

	config = &Config{UserEmail: "flag@example.com"}
	settings.SocialEnabled = false
	if err := applySettings(config, settings, dir); err != nil {
		t.Fatalf("applySettings: %v", err)
	}
	if config.UserEmail != "flag@example.com" || config.Social.APIKey != "" {
		t.Fatalf("config = %+v", config)
	}
}

func TestSecureKeyPermissions(t *testing.T) {
	dir := t.TempDir()
	if err := saveSecureOpenAIKey(dir, "sk-test"); err != nil {
		t.Fatalf("save: %v", err)
	}
	fi, err := os.Stat(secureOpenAIKeyPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	empty := t.TempDir()
	if err := saveSecureOpenAIKey(empty, "   "); err != nil {
		t.Fatal(err)
	}
	if key, err := loadSecureOpenAIKey(empty); err != nil || key != "" {
		t.Fatalf("blank key stored: %q, %v", key, err)
	}
}

func keys(m tea.Model, inputs ...string) tea.Model {
	for _, in := range inputs {
		var msg tea.KeyMsg
		switch in {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(in)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestOnboardingFlow(t *testing.T) {
	m := keys(newOnboardingModel("", ""), "not-an-email", "enter").(onboardingModel)
	if m.step != stepEmail || m.warn == "" {
		t.Fatalf("invalid email accepted: step=%d warn=%q", m.step, m.warn)
	}

	m = newOnboardingModel("", "")
	m = keys(m, "Ops@Example.com", "enter", "y", "sk-typed", "enter").(onboardingModel)
	if m.step != stepDone {
		t.Fatalf("step = %d, want done", m.step)
	}

	dir := t.TempDir()
	settings, err := finishOnboarding(dir, m)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !settings.Completed || !settings.SocialEnabled || settings.OperatorEmail != "ops@example.com" {
		t.Fatalf("settings = %+v", settings)
	}
	if key, _ := loadSecureOpenAIKey(dir); key != "sk-typed" {
		t.Fatalf("stored key = %q", key)
	}
	loaded, err := loadOnboardingSettings(dir)
	if err != nil || loaded != settings {
		t.Fatalf("loaded = %+v, %v", loaded, err)
	}
}

func TestOnboardingDisableAndExistingKey(t *testing.T) {
	m := keys(newOnboardingModel("ops@example.com", ""), "n").(onboardingModel)
	if m.step != stepDone || m.settings.SocialEnabled {
		t.Fatalf("disable path: %+v", m.settings)
	}

	m = keys(newOnboardingModel("ops@example.com", "sk-env"), "enter").(onboardingModel)
	if m.step != stepDone || !m.settings.SocialEnabled || m.capturedKey != "" {
		t.Fatalf("existing key path: step=%d settings=%+v", m.step, m.settings)
	}

	m = keys(newOnboardingModel("", ""), "esc").(onboardingModel)
	if m.settings.Completed {
		t.Fatal("cancel without email marked onboarding complete")
	}
}

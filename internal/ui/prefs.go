package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"crmdash/internal/table"
)

// SortPref is one persisted sort key.
type SortPref struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	Sorting       []SortPref `json:"sorting,omitempty"`
	HiddenColumns []string   `json:"hidden_columns,omitempty"`
	ActiveColumn  string     `json:"active_column,omitempty"`
}

// UIPreferences stores persisted app preferences keyed by table name.
type UIPreferences struct {
	Tables map[string]TablePrefs `json:"tables"`
}

func defaultUIPreferences() UIPreferences {
	return UIPreferences{Tables: make(map[string]TablePrefs)}
}

func sortPrefs(keys []table.SortKey) []SortPref {
	out := make([]SortPref, 0, len(keys))
	for _, k := range keys {
		out = append(out, SortPref{Column: k.ColumnID, Desc: k.Direction == table.Descending})
	}
	return out
}

func sortKeys(prefs []SortPref) []table.SortKey {
	out := make([]table.SortKey, 0, len(prefs))
	for _, p := range prefs {
		dir := table.Ascending
		if p.Desc {
			dir = table.Descending
		}
		out = append(out, table.SortKey{ColumnID: p.Column, Direction: dir})
	}
	return out
}

func loadUIPreferences(path string) UIPreferences {
	if path == "" {
		return defaultUIPreferences()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaultUIPreferences()
	}

	var prefs UIPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return defaultUIPreferences()
	}
	if prefs.Tables == nil {
		prefs.Tables = make(map[string]TablePrefs)
	}
	return prefs
}

func saveUIPreferences(path string, prefs UIPreferences) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}

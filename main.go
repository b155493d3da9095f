package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/cmd"
	"crmdash/internal/app"
	"crmdash/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config.ShowVersion {
		fmt.Println("crmdash", version)
		return
	}

	// stdout belongs to the TUI; log to a file instead.
	logFile, err := tea.LogToFile(config.LogPath, "crmdash")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.Printf("starting crmdash %s", version)

	if config.Social.APIKey == "" {
		fmt.Fprintln(os.Stderr, "ℹ  No OPENAI_API_KEY set, social post generation disabled")
	}

	ctx, err := app.Open(app.Config{
		DBPath:    config.DBPath,
		UserEmail: config.UserEmail,
		PrefsPath: config.PrefsPath,
		PageSize:  config.PageSize,
		Seed:      config.Seed,
		SMTP:      config.SMTP,
		Social:    config.Social,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	root, err := ui.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build UI: %v\n", err)
		os.Exit(1)
	}

	// Create and run Bubble Tea app
	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("program error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/ui"
)

// OnboardingSettings are the first-run answers.
type OnboardingSettings struct {
	Completed     bool   `json:"completed"`
	OperatorEmail string `json:"operator_email,omitempty"`
	SocialEnabled bool   `json:"social_enabled"`
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	path := onboardingPath(configDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(configDir), data, 0644)
}

func secureOpenAIKeyPath(configDir string) string {
	return filepath.Join(configDir, "openai_api_key")
}

func saveSecureOpenAIKey(configDir, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	// Owner read/write only.
	return os.WriteFile(secureOpenAIKeyPath(configDir), []byte(strings.TrimSpace(key)+"\n"), 0600)
}

func loadSecureOpenAIKey(configDir string) (string, error) {
	data, err := os.ReadFile(secureOpenAIKeyPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepEmail onboardingStep = iota
	stepEnable
	stepKey
	stepDone
)

type onboardingModel struct {
	step        onboardingStep
	enable      bool
	existingKey string
	emailInput  textinput.Model
	keyInput    textinput.Model
	settings    OnboardingSettings
	capturedKey string
	status      string
	warn        string
	width       int
	height      int
}

var (
	obTabsStyle   = ui.TitleStyle.Padding(0, 2)
	obTabInactive = lipgloss.NewStyle().Foreground(ui.ColorMuted).Padding(0, 2)
	obTabActive   = obTabInactive.Foreground(ui.ColorText).Bold(true).Underline(true)
	obWarnStyle   = lipgloss.NewStyle().Foreground(ui.ColorRed)
)

func newInput(placeholder, prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 300
	in.Prompt = prompt
	in.TextStyle = lipgloss.NewStyle().Foreground(ui.ColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(ui.ColorText).Background(ui.ColorAccent)
	return in
}

func newOnboardingModel(existingEmail, existingKey string) onboardingModel {
	email := newInput("you@example.com", "email> ")
	key := newInput("Paste OpenAI API key here", "api> ")
	key.EchoMode = textinput.EchoPassword

	m := onboardingModel{
		step:        stepEmail,
		enable:      true,
		existingKey: strings.TrimSpace(existingKey),
		emailInput:  email,
		keyInput:    key,
		settings: OnboardingSettings{
			Completed:     true,
			SocialEnabled: true,
		},
	}
	if e := strings.TrimSpace(existingEmail); e != "" {
		m.settings.OperatorEmail = e
		m.step = stepEnable
	} else {
		m.emailInput.Focus()
	}
	return m
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.cancel()
		}
		switch m.step {
		case stepEmail:
			switch msg.String() {
			case "enter":
				email := strings.ToLower(strings.TrimSpace(m.emailInput.Value()))
				if _, err := mail.ParseAddress(email); err != nil {
					m.warn = "Enter a valid email address."
					return m, nil
				}
				m.warn = ""
				m.settings.OperatorEmail = email
				m.emailInput.Blur()
				m.step = stepEnable
				return m, nil
			case "esc":
				return m.cancel()
			}
			var cmd tea.Cmd
			m.emailInput, cmd = m.emailInput.Update(msg)
			return m, cmd
		case stepEnable:
			switch msg.String() {
			case "y", "Y":
				m.enable = true
				return m.nextStep()
			case "n", "N":
				m.enable = false
				return m.nextStep()
			case "up", "k", "left", "h":
				m.enable = true
				return m, nil
			case "down", "j", "right", "l":
				m.enable = false
				return m, nil
			case "enter":
				// Enter commits the currently selected option (m.enable)
				return m.nextStep()
			case "q", "esc":
				return m.cancel()
			default:
				return m, nil
			}
		case stepKey:
			switch msg.String() {
			case "enter":
				key := strings.TrimSpace(m.keyInput.Value())
				if key == "" {
					m.settings.SocialEnabled = false
					m.status = "No key entered. Social posts disabled."
				} else {
					m.settings.SocialEnabled = true
					m.capturedKey = key
					m.status = "OpenAI API key saved."
				}
				m.step = stepDone
				return m, tea.Quit
			case "esc":
				m.settings.SocialEnabled = false
				m.status = "Skipped key setup. Social posts disabled."
				m.step = stepDone
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.keyInput, cmd = m.keyInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m onboardingModel) cancel() (tea.Model, tea.Cmd) {
	m.settings.Completed = m.settings.OperatorEmail != ""
	m.settings.SocialEnabled = false
	m.status = "Setup canceled. Social posts disabled."
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	if !m.enable {
		m.settings.SocialEnabled = false
		m.status = "Social posts disabled."
		m.step = stepDone
		return m, tea.Quit
	}
	if m.existingKey != "" {
		m.settings.SocialEnabled = true
		m.status = "Using existing OPENAI_API_KEY from environment/flags."
		m.step = stepDone
		return m, tea.Quit
	}
	m.step = stepKey
	m.keyInput.Focus()
	return m, nil
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(height-6, 8)
	content := m.renderContent(width, contentHeight)
	page := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(ui.ColorText).
		Width(width).
		Height(height).
		Render(page)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + ui.LabelStyle.Render("crmdash") + " " + ui.HelpDescStyle.Render("› Setup")
	right := ui.HelpDescStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return ui.TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	names := []string{"Operator", "Social Posts", "OpenAI Key"}
	tabs := []string{"  "}
	for i, name := range names {
		if onboardingStep(i) == m.step {
			tabs = append(tabs, obTabActive.Render(name))
		} else {
			tabs = append(tabs, obTabInactive.Render(name))
		}
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, tabs...))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepEmail:
		return ui.FooterStyle.Width(width).Render("enter continue  esc cancel")
	case stepEnable:
		return ui.FooterStyle.Width(width).Render("↑↓/jk to navigate  y/n enter to confirm  q cancel")
	case stepKey:
		return ui.FooterStyle.Width(width).Render("enter save  esc skip  ctrl+c cancel")
	default:
		return ui.FooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepEmail:
		input := ui.ActiveBorderStyle.Width(max(30, cardWidth-14)).Render(m.emailInput.View())
		lines := []string{
			ui.LabelStyle.Render("Who is running the dashboard?"),
			"",
			ui.HelpDescStyle.Render("The first operator in a new database becomes an admin."),
			"",
			input,
		}
		if m.warn != "" {
			lines = append(lines, "", obWarnStyle.Render(m.warn))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	case stepEnable:
		question := ui.LabelStyle.Render("Draft social posts from templates with OpenAI?")
		on := "Enable social post generation"
		off := "Disable social post generation"

		var onDisplay, offDisplay string
		if m.enable {
			onDisplay = "  " + ui.LabelStyle.Render("→ "+on)
			offDisplay = "    " + ui.NormalRowStyle.Render(off)
		} else {
			onDisplay = "    " + ui.NormalRowStyle.Render(on)
			offDisplay = "  " + ui.LabelStyle.Render("→ "+off)
		}

		body = lipgloss.JoinVertical(
			lipgloss.Left,
			question,
			"",
			onDisplay,
			offDisplay,
			"",
			ui.HelpDescStyle.Render("Use arrow keys or j/k to navigate, y/n or Enter to confirm"),
			ui.HelpDescStyle.Render("You can change this later in ~/.crmdash/onboarding.json"),
		)
	case stepKey:
		input := ui.ActiveBorderStyle.Width(max(30, cardWidth-14)).Render(m.keyInput.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			ui.LabelStyle.Render("Get an OpenAI API key:"),
			"",
			ui.HelpDescStyle.Render("1) https://platform.openai.com/api-keys"),
			ui.HelpDescStyle.Render("2) Create a secret key"),
			ui.HelpDescStyle.Render("3) Paste it below"),
			"",
			ui.LabelStyle.Render("OpenAI API Key"),
			input,
			"",
			ui.HelpDescStyle.Render("Stored in ~/.crmdash/openai_api_key, readable only by you."),
			ui.HelpDescStyle.Render("Press Enter to save, Esc to skip."),
		)
	default:
		msg := ui.HelpDescStyle.Render(m.status)
		if strings.Contains(strings.ToLower(m.status), "disabled") {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, ui.LabelStyle.Render("Onboarding Complete"), "", msg)
	}

	card := ui.PanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir, existingEmail, existingKey string) (OnboardingSettings, error) {
	model := newOnboardingModel(existingEmail, existingKey)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	return finishOnboarding(configDir, m)
}

// finishOnboarding persists what the wizard collected.
func finishOnboarding(configDir string, m onboardingModel) (OnboardingSettings, error) {
	if strings.TrimSpace(m.capturedKey) != "" {
		if err := saveSecureOpenAIKey(configDir, m.capturedKey); err != nil {
			return OnboardingSettings{}, err
		}
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}

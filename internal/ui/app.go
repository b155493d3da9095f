package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/app"
	"crmdash/internal/debounce"
	"crmdash/internal/model"
	"crmdash/internal/util"
)

// searchDelay is how long the contacts screen waits after the last
// keystroke before querying. Tests shorten it.
var searchDelay = debounce.DefaultDelay

// Model is the root Bubble Tea model.
type Model struct {
	ctx    *app.Context
	screen model.Screen
	mode   model.Mode

	width  int
	height int

	error       string
	info        string
	showingHelp bool

	// Screen models
	users        *usersScreen
	contacts     *contactsScreen
	templates    *templatesScreen
	campaigns    *campaignsScreen
	detail       *DetailModel
	userForm     *UserFormModel
	contactForm  *ContactFormModel
	templateForm *TemplateFormModel
	sendForm     *SendFormModel
	// returnTo is the list screen a form or detail goes back to.
	returnTo model.Screen

	spinner   spinner.Model
	keys      KeyMap
	prefs     UIPreferences
	undoStack []undoAction
	redoStack []undoAction
}

// New creates a new root model.
func New(ctx *app.Context) (Model, error) {
	users, err := newUsersScreen(ctx)
	if err != nil {
		return Model{}, err
	}
	contacts, err := newContactsScreen(ctx, searchDelay)
	if err != nil {
		return Model{}, err
	}
	templates, err := newTemplatesScreen(ctx)
	if err != nil {
		return Model{}, err
	}
	campaigns, err := newCampaignsScreen(ctx)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		ctx:       ctx,
		screen:    model.ScreenContacts,
		mode:      model.ModeNav,
		users:     users,
		contacts:  contacts,
		templates: templates,
		campaigns: campaigns,
		returnTo:  model.ScreenContacts,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
		),
		keys:  DefaultKeyMap(),
		prefs: loadUIPreferences(ctx.PrefsPath),
	}
	for _, t := range m.tables() {
		if p, ok := m.prefs.Tables[t.Name()]; ok {
			t.ApplyPrefs(p)
		}
	}
	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reloadAllCmd())
}

func (m *Model) reloadAllCmd() tea.Cmd {
	return tea.Batch(
		m.users.reload(),
		m.contacts.reload(),
		m.templates.reload(),
		m.campaigns.reload(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}

		typing := false
		if t := m.currentTable(); t != nil {
			typing = t.Capturing()
		}
		if !typing && key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}
		if m.showingHelp {
			if key.Matches(msg, m.keys.Back) {
				m.showingHelp = false
			}
			return m, nil
		}
		return m.handleNavMode(msg)

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		m.info = ""
		for _, t := range m.tables() {
			t.StopLoading()
		}
		if m.sendForm != nil {
			m.sendForm.Done()
		}
		return m, nil

	case model.StatusMsg:
		m.info = msg.Text
		return m, nil

	case debounce.Msg:
		_, cmd := m.contacts.handleDebounce(msg)
		return m, cmd

	case model.UsersLoadedMsg:
		m.users.view.SetData(msg.Users)
		for _, u := range msg.Users {
			if u.ID == m.ctx.CurrentUser.ID {
				m.ctx.CurrentUser = u
			}
		}
		return m, nil

	case model.ContactsLoadedMsg:
		m.contacts.handleLoaded(msg)
		return m, nil

	case model.TemplatesLoadedMsg:
		m.templates.view.SetData(msg.Templates)
		return m, nil

	case model.CampaignsLoadedMsg:
		m.campaigns.view.SetData(msg.Campaigns)
		return m, nil

	case model.CampaignDetailLoadedMsg:
		m.openDetail(campaignDetail(msg.Detail))
		return m, nil

	case showDetailMsg:
		m.openDetail(msg.detail)
		return m, nil

	case editUserMsg:
		return m.openUserForm(msg.user)

	case editContactMsg:
		return m.openContactForm(msg.contact)

	case editTemplateMsg:
		return m.openTemplateForm(msg.template)

	case model.ComposeCampaignMsg:
		if len(msg.Recipients) == 0 {
			m.info = "No recipients selected"
			return m, nil
		}
		m.sendForm = NewSendFormModel(m.ctx)
		m.sendForm.Open(msg.Recipients, m.templates.view.table.Data())
		m.openForm(model.ScreenSendForm)
		return m, nil

	case model.CampaignSentMsg:
		m.mode = model.ModeNav
		m.sendForm = nil
		m.screen = model.ScreenCampaigns
		m.returnTo = model.ScreenCampaigns
		m.error = ""
		m.info = fmt.Sprintf("Campaign %s: %d sent, %d failed, %d queued",
			shortBatch(msg.BatchID), msg.Sent, msg.Failed, msg.Queued)
		return m, tea.Batch(m.campaigns.reload(), m.contacts.reload())

	case model.SocialPostMsg:
		t, ok := m.templates.find(msg.TemplateID)
		if !ok {
			t = model.Template{ID: msg.TemplateID, Name: "Social post"}
		}
		m.info = ""
		m.openDetail(socialPostDetail(t, msg.Post))
		return m, nil

	case model.UserSavedMsg:
		if action := m.buildUserSaveAction(msg); action != nil {
			m.pushUndoAction(*action)
		}
		if msg.After.ID == m.ctx.CurrentUser.ID {
			m.ctx.CurrentUser = msg.After
		}
		m.closeForms()
		m.info = "User saved"
		return m, m.users.reload()

	case model.ContactSavedMsg:
		if action := m.buildContactSaveAction(msg); action != nil {
			m.pushUndoAction(*action)
		}
		m.closeForms()
		m.info = "Contact saved"
		return m, m.contacts.reload()

	case model.TemplateSavedMsg:
		if action := m.buildTemplateSaveAction(msg); action != nil {
			m.pushUndoAction(*action)
		}
		m.closeForms()
		m.info = "Template saved"
		return m, m.templates.reload()

	case model.FormCancelledMsg:
		m.closeForms()
		return m, nil

	case model.DeleteUsersMsg:
		m.pushUndoAction(m.buildDeleteUsersAction(msg))
		m.info = util.Plural(len(msg.Deleted), "user") + " deleted (u to undo)"
		return m, m.users.reload()

	case model.DeleteContactsMsg:
		m.pushUndoAction(m.buildDeleteContactsAction(msg))
		m.info = util.Plural(len(msg.Deleted), "contact") + " deleted (u to undo)"
		return m, m.contacts.reload()

	case model.DeleteTemplateMsg:
		m.pushUndoAction(m.buildDeleteTemplateAction(msg))
		m.info = "Template deleted (u to undo)"
		return m, m.templates.reload()

	case undoAppliedMsg:
		return m, m.applyUndoResult(msg)

	default:
		// Pass all other messages to forms
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
	}
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	showTabs := isTabScreen(m.screen)

	// Header: 1 line, Footer: 1 line, Tabs: 2 lines (if shown)
	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}
	if m.error != "" {
		contentHeight--
	}
	if m.info != "" {
		contentHeight--
	}
	contentHeight = max(contentHeight, 3)

	var content string
	breadcrumbParts := []string{screenTitle(m.returnTo)}
	switch m.screen {
	case model.ScreenUsers, model.ScreenContacts, model.ScreenTemplates, model.ScreenCampaigns:
		breadcrumbParts = []string{screenTitle(m.screen)}
		if t := m.currentTable(); t != nil {
			content = t.View(m.width, contentHeight, m.spinner.View())
		}
	case model.ScreenDetail:
		if m.detail != nil {
			breadcrumbParts = append(breadcrumbParts, m.detail.title)
			content = m.detail.View(m.width, contentHeight)
		}
	case model.ScreenUserForm:
		if m.userForm != nil {
			breadcrumbParts = append(breadcrumbParts, m.userForm.form.title)
			content = m.userForm.View(m.width, contentHeight)
		}
	case model.ScreenContactForm:
		if m.contactForm != nil {
			breadcrumbParts = append(breadcrumbParts, m.contactForm.form.title)
			content = m.contactForm.View(m.width, contentHeight)
		}
	case model.ScreenTemplateForm:
		if m.templateForm != nil {
			breadcrumbParts = append(breadcrumbParts, m.templateForm.form.title)
			content = m.templateForm.View(m.width, contentHeight)
		}
	case model.ScreenSendForm:
		if m.sendForm != nil {
			breadcrumbParts = append(breadcrumbParts, "Send")
			content = m.sendForm.View(m.width, contentHeight)
		}
	}

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	parts := []string{m.renderHeader(breadcrumbParts)}
	if showTabs {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}
	parts = append(parts, content, RenderHelp(m.screen, m.mode, m.width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

var tabOrder = []model.Screen{
	model.ScreenUsers,
	model.ScreenContacts,
	model.ScreenTemplates,
	model.ScreenCampaigns,
}

func isTabScreen(s model.Screen) bool {
	return slices.Contains(tabOrder, s)
}

func screenTitle(s model.Screen) string {
	switch s {
	case model.ScreenUsers:
		return "Users"
	case model.ScreenContacts:
		return "Contacts"
	case model.ScreenTemplates:
		return "Templates"
	case model.ScreenCampaigns:
		return "Campaigns"
	default:
		return ""
	}
}

func renderTabs(screen model.Screen, width int) string {
	var tabStrings []string
	for i, s := range tabOrder {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == s {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(fmt.Sprintf("%d %s", i+1, screenTitle(s))))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func (m Model) renderHeader(breadcrumbParts []string) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("crmdash")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: operator and current date
	u := m.ctx.CurrentUser
	right := BreadcrumbStyle.Render(fmt.Sprintf("%s (%s) · %s", u.Name, u.Role, time.Now().Format("Mon 02 Jan"))) + "  "

	padding := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(m.width).Render(headerContent)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == model.ScreenDetail {
		return m.handleDetailNav(msg)
	}

	t := m.currentTable()
	if t == nil {
		return m, nil
	}

	// Filter inputs and the actions menu own the keyboard while open.
	if t.Capturing() {
		return m.forwardToTable(t, msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Tab1):
		m.switchTab(0)
		return m, nil
	case key.Matches(msg, k.Tab2):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, k.Tab3):
		m.switchTab(2)
		return m, nil
	case key.Matches(msg, k.Tab4):
		m.switchTab(3)
		return m, nil
	case key.Matches(msg, k.PrevTab):
		m.switchTab((m.tabIndex() + len(tabOrder) - 1) % len(tabOrder))
		return m, nil
	case key.Matches(msg, k.NextTab):
		m.switchTab((m.tabIndex() + 1) % len(tabOrder))
		return m, nil
	case key.Matches(msg, k.Reload):
		m.error = ""
		return m, m.reloadCurrent()
	case key.Matches(msg, k.Add):
		return m.addCurrent()
	case key.Matches(msg, k.Edit):
		return m.editCurrent()
	case key.Matches(msg, k.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		if err := canEdit(m.ctx.CurrentUser); err != nil {
			m.error = err.Error()
			return m, nil
		}
		return m, m.undoCmd()
	case key.Matches(msg, k.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		if err := canEdit(m.ctx.CurrentUser); err != nil {
			m.error = err.Error()
			return m, nil
		}
		return m, m.redoCmd()
	}
	return m.forwardToTable(t, msg)
}

func (m Model) forwardToTable(t tableController, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := t.Prefs()
	handled, cmd := t.HandleKey(msg)
	if !handled {
		return m, nil
	}
	if info := t.TakeInfo(); info != "" {
		m.info = info
	}
	if after := t.Prefs(); !samePrefs(before, after) {
		m.prefs.Tables[t.Name()] = after
		if err := saveUIPreferences(m.ctx.PrefsPath, m.prefs); err != nil {
			m.error = err.Error()
		}
	}
	return m, cmd
}

func samePrefs(a, b TablePrefs) bool {
	return a.ActiveColumn == b.ActiveColumn &&
		slices.Equal(a.Sorting, b.Sorting) &&
		slices.Equal(a.HiddenColumns, b.HiddenColumns)
}

func (m Model) handleDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.PrevTab):
		m.screen = m.returnTo
		m.detail = nil
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		if m.detail != nil && m.detail.copyText != "" {
			return m, copyCmd(m.detail.copyText, m.detail.copyWhat)
		}
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// handleInsertMode handles insert/edit mode input.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenUserForm:
		if m.userForm != nil {
			newForm, cmd := m.userForm.Update(msg)
			m.userForm = &newForm
			return m, cmd
		}
	case model.ScreenContactForm:
		if m.contactForm != nil {
			newForm, cmd := m.contactForm.Update(msg)
			m.contactForm = &newForm
			return m, cmd
		}
	case model.ScreenTemplateForm:
		if m.templateForm != nil {
			newForm, cmd := m.templateForm.Update(msg)
			m.templateForm = &newForm
			return m, cmd
		}
	case model.ScreenSendForm:
		if m.sendForm != nil {
			newForm, cmd := m.sendForm.Update(msg)
			m.sendForm = &newForm
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) tables() []tableController {
	return []tableController{m.users.view, m.contacts.view, m.templates.view, m.campaigns.view}
}

func (m *Model) currentTable() tableController {
	if i := m.tabIndex(); i >= 0 && isTabScreen(m.screen) {
		return m.tables()[i]
	}
	return nil
}

func (m *Model) tabIndex() int {
	if i := slices.Index(tabOrder, m.screen); i >= 0 {
		return i
	}
	return slices.Index(tabOrder, m.returnTo)
}

func (m *Model) switchTab(i int) {
	m.screen = tabOrder[i]
	m.returnTo = m.screen
	m.error = ""
	m.info = ""
}

func (m *Model) reloadCurrent() tea.Cmd {
	switch m.screen {
	case model.ScreenUsers:
		return m.users.reload()
	case model.ScreenContacts:
		return m.contacts.reload()
	case model.ScreenTemplates:
		return m.templates.reload()
	case model.ScreenCampaigns:
		return m.campaigns.reload()
	}
	return nil
}

func (m Model) addCurrent() (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenUsers:
		return m.openUserForm(nil)
	case model.ScreenContacts:
		return m.openContactForm(nil)
	case model.ScreenTemplates:
		return m.openTemplateForm(nil)
	case model.ScreenCampaigns:
		m.info = "Select contacts and press E to send a campaign"
	}
	return m, nil
}

func (m Model) editCurrent() (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenUsers:
		if row, ok := m.users.view.CurrentRow(); ok {
			return m.openUserForm(&row.Row)
		}
	case model.ScreenContacts:
		if row, ok := m.contacts.view.CurrentRow(); ok {
			return m.openContactForm(&row.Row)
		}
	case model.ScreenTemplates:
		if row, ok := m.templates.view.CurrentRow(); ok {
			return m.openTemplateForm(&row.Row)
		}
	}
	return m, nil
}

func (m Model) openUserForm(u *model.User) (tea.Model, tea.Cmd) {
	if err := canManageUsers(m.ctx.CurrentUser); err != nil {
		m.error = err.Error()
		return m, nil
	}
	m.userForm = NewUserFormModel(m.ctx.DB)
	if u != nil {
		m.userForm.LoadUser(*u)
	}
	m.openForm(model.ScreenUserForm)
	return m, nil
}

func (m Model) openContactForm(c *model.Contact) (tea.Model, tea.Cmd) {
	if err := canEdit(m.ctx.CurrentUser); err != nil {
		m.error = err.Error()
		return m, nil
	}
	m.contactForm = NewContactFormModel(m.ctx.DB)
	if c != nil {
		m.contactForm.LoadContact(*c)
	}
	m.openForm(model.ScreenContactForm)
	return m, nil
}

func (m Model) openTemplateForm(t *model.Template) (tea.Model, tea.Cmd) {
	if err := canEdit(m.ctx.CurrentUser); err != nil {
		m.error = err.Error()
		return m, nil
	}
	m.templateForm = NewTemplateFormModel(m.ctx)
	if t != nil {
		m.templateForm.LoadTemplate(*t)
	}
	m.openForm(model.ScreenTemplateForm)
	return m, nil
}

func (m *Model) openForm(screen model.Screen) {
	if isTabScreen(m.screen) {
		m.returnTo = m.screen
	}
	m.mode = model.ModeInsert
	m.screen = screen
	m.error = ""
}

func (m *Model) closeForms() {
	m.mode = model.ModeNav
	m.userForm = nil
	m.contactForm = nil
	m.templateForm = nil
	m.sendForm = nil
	m.screen = m.returnTo
}

func (m *Model) openDetail(d *DetailModel) {
	if d == nil {
		return
	}
	m.returnTo = d.back
	m.detail = d
	m.screen = model.ScreenDetail
	m.error = ""
}

func shortBatch(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

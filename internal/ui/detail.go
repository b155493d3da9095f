package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/mail"
	"crmdash/internal/model"
	"crmdash/internal/util"
)

type detailField struct {
	label string
	value string
}

// DetailModel is the read-only "View Details" screen.
type DetailModel struct {
	title  string
	back   model.Screen
	fields []detailField
	// body is shown below the fields, e.g. a template body or a post.
	bodyLabel string
	body      string
	lines     []string
	// copyText is what y copies.
	copyText string
	copyWhat string
}

type showDetailMsg struct {
	detail *DetailModel
}

func userDetail(u model.User) *DetailModel {
	lastLogin := "Never"
	if u.LastLoginAt != nil {
		lastLogin = util.FormatDateHuman(*u.LastLoginAt)
	}
	return &DetailModel{
		title: u.Name,
		back:  model.ScreenUsers,
		fields: []detailField{
			{"Name", u.Name},
			{"Email", u.Email},
			{"Role", string(u.Role)},
			{"Status", activeLabel(u.Active)},
			{"Last Login", lastLogin},
			{"Created", util.FormatTime(u.CreatedAt)},
		},
		copyText: u.Email,
		copyWhat: "email",
	}
}

func contactDetail(c model.Contact) *DetailModel {
	lastEmailed := "Never"
	if c.LastEmailedAt != nil {
		lastEmailed = util.FormatDateHuman(*c.LastEmailedAt)
	}
	return &DetailModel{
		title: c.FullName(),
		back:  model.ScreenContacts,
		fields: []detailField{
			{"Name", c.FullName()},
			{"Email", c.Email},
			{"Phone", util.AutoFormat(c.Phone)},
			{"Company", c.Company},
			{"Tags", c.Tags},
			{"Subscribed", yesNo(c.Subscribed)},
			{"Last Emailed", lastEmailed},
			{"Created", util.FormatTime(c.CreatedAt)},
		},
		copyText: c.Email,
		copyWhat: "email",
	}
}

func templateDetail(t model.Template, r *mail.Renderer) *DetailModel {
	d := &DetailModel{
		title: t.Name,
		back:  model.ScreenTemplates,
		fields: []detailField{
			{"Name", t.Name},
			{"Kind", string(t.Kind)},
			{"Subject", t.Subject},
			{"Updated", util.FormatDateHuman(t.UpdatedAt)},
			{"Variables", strings.Join(mail.VariableNames(), ", ")},
		},
		bodyLabel: "Preview",
		copyText:  t.Body,
		copyWhat:  "template body",
	}
	msg, err := r.Preview(t)
	if err != nil {
		d.bodyLabel = "Body"
		d.body = t.Body
		d.lines = []string{ErrorStyle.Render(err.Error())}
		return d
	}
	d.fields[2].value = msg.Subject
	d.body = msg.Body
	return d
}

func campaignDetail(detail model.CampaignDetail) *DetailModel {
	c := detail.Campaign
	d := &DetailModel{
		title: c.Subject,
		back:  model.ScreenCampaigns,
		fields: []detailField{
			{"Template", c.TemplateName},
			{"Subject", c.Subject},
			{"Batch", c.BatchID},
			{"Sent By", c.SenderName},
			{"Sent", util.FormatTime(c.CreatedAt)},
			{"Outcome", campaignOutcome(c)},
		},
		bodyLabel: "Recipients",
		copyText:  c.BatchID,
		copyWhat:  "batch id",
	}
	for _, r := range detail.Recipients {
		line := fmt.Sprintf("%-32s %-7s", r.Email, r.Status)
		if r.Error != "" {
			line += "  " + r.Error
		}
		style := NormalRowStyle
		switch r.Status {
		case model.RecipientFailed:
			style = DestructiveStyle
		case model.RecipientQueued:
			style = BadgeStyle
		}
		d.lines = append(d.lines, style.Render(line))
	}
	return d
}

func socialPostDetail(t model.Template, post string) *DetailModel {
	return &DetailModel{
		title: t.Name,
		back:  model.ScreenTemplates,
		fields: []detailField{
			{"Template", t.Name},
			{"Length", fmt.Sprintf("%d characters", len([]rune(post)))},
		},
		bodyLabel: "Post",
		body:      post,
		copyText:  post,
		copyWhat:  "post",
	}
}

func campaignOutcome(c model.CampaignRow) string {
	return fmt.Sprintf("%s: %d sent, %d failed, %d queued",
		util.Plural(c.Recipients, "recipient"), c.Sent, c.Failed, c.Queued)
}

// View renders the detail.
func (m *DetailModel) View(width, height int) string {
	shortcuts := HelpDescStyle.Render("y copy  esc back")
	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	fields := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		fields = append(fields, renderField(f.label, f.value))
	}
	sections := []string{strings.Join(fields, "\n")}

	if m.body != "" || len(m.lines) > 0 {
		divider := lipgloss.NewStyle().
			Foreground(ColorMuted).
			Render(strings.Repeat("─", max(width-8, 1)))
		sections = append(sections, divider, LabelStyle.Render(m.bodyLabel+":"))
		if m.body != "" {
			sections = append(sections, NormalRowStyle.Width(max(width-8, 1)).Render(m.body))
		}
		if len(m.lines) > 0 {
			sections = append(sections, strings.Join(m.lines, "\n"))
		}
	}

	content := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func renderField(label, value string) string {
	if value == "" {
		value = "—"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}

package ui

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/db"
	"crmdash/internal/mail"
	"crmdash/internal/model"
	"crmdash/internal/social"
)

const (
	sendTimeout     = 2 * time.Minute
	generateTimeout = 30 * time.Second
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func loadUsersCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		users, err := db.ListUsers(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.UsersLoadedMsg{Users: users}
	}
}

func loadContactsCmd(database *sql.DB, q model.ContactQuery, seq int) tea.Cmd {
	return func() tea.Msg {
		contacts, err := db.ListContacts(database, q)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ContactsLoadedMsg{Seq: seq, Contacts: contacts}
	}
}

func loadTemplatesCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		templates, err := db.ListTemplates(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.TemplatesLoadedMsg{Templates: templates}
	}
}

func loadCampaignsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		campaigns, err := db.ListCampaigns(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.CampaignsLoadedMsg{Campaigns: campaigns}
	}
}

func loadCampaignDetailCmd(database *sql.DB, id int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := db.GetCampaignDetail(database, id)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load campaign: %w", err)}
		}
		return model.CampaignDetailLoadedMsg{Detail: detail}
	}
}

func deleteUsersCmd(database *sql.DB, users []model.User) tea.Cmd {
	return func() tea.Msg {
		ids := make([]int64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if err := db.DeleteUsers(database, ids); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete users: %w", err)}
		}
		return model.DeleteUsersMsg{Deleted: users}
	}
}

func deleteContactsCmd(database *sql.DB, contacts []model.Contact) tea.Cmd {
	return func() tea.Msg {
		if err := db.DeleteContacts(database, contactIDs(contacts)); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete contacts: %w", err)}
		}
		return model.DeleteContactsMsg{Deleted: contacts}
	}
}

func deleteTemplateCmd(database *sql.DB, t model.Template) tea.Cmd {
	return func() tea.Msg {
		if err := db.DeleteTemplate(database, t.ID); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete template: %w", err)}
		}
		return model.DeleteTemplateMsg{ID: t.ID, Deleted: t}
	}
}

func copyCmd(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to copy %s: %w", what, err)}
		}
		return model.StatusMsg{Text: "Copied " + what + " to clipboard"}
	}
}

func sendCampaignCmd(mailer *mail.Service, t model.Template, contacts []model.Contact, sender model.User) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		res, err := mailer.SendCampaign(ctx, t, contacts, sender)
		if err != nil && res.CampaignID == 0 {
			return model.ErrorMsg{Err: fmt.Errorf("failed to send campaign: %w", err)}
		}
		return model.CampaignSentMsg{
			CampaignID: res.CampaignID,
			BatchID:    res.BatchID,
			Sent:       res.Sent,
			Failed:     res.Failed,
			Queued:     res.Queued,
		}
	}
}

func generatePostCmd(gen *social.Generator, t model.Template, senderName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		post, err := gen.Generate(ctx, t, senderName)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.SocialPostMsg{TemplateID: t.ID, Post: post}
	}
}

func contactIDs(contacts []model.Contact) []int64 {
	ids := make([]int64, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}
	return ids
}

package app

import (
	"database/sql"
	"fmt"

	"crmdash/internal/db"
	"crmdash/internal/model"
)

var seedContacts = []model.NewContact{
	{FirstName: "Maya", LastName: "Patel", Email: "maya.patel@example.com", Phone: "8583695555", Company: "Harbor Coffee", Tags: "newsletter", Subscribed: true},
	{FirstName: "Luis", LastName: "Ortega", Email: "luis@ortega.example", Phone: "6195550142", Company: "Ortega Builders", Tags: "vip", Subscribed: true},
	{FirstName: "Grace", LastName: "Kim", Email: "grace.kim@example.org", Company: "Kim Dental", Subscribed: true},
	{FirstName: "Owen", LastName: "Brooks", Email: "owen@brooks.example", Phone: "7605550199", Subscribed: false},
	{FirstName: "Priya", LastName: "Shah", Email: "priya@shahlaw.example", Company: "Shah Law", Tags: "vip, newsletter", Subscribed: true},
}

var seedTemplates = []model.NewTemplate{
	{
		Name:    "Monthly newsletter",
		Kind:    model.KindNewsletter,
		Subject: "What's new this month, {{.FirstName}}",
		Body:    "<h1>Hello {{.FirstName}}!</h1><p>Here is what happened at {{.SenderName}} this month.</p>",
	},
	{
		Name:    "Holiday e-card",
		Kind:    model.KindECard,
		Subject: "Happy holidays from {{.SenderName}}",
		Body:    "<p>Dear {{.FullName}},</p><p>Warm wishes to you and everyone at {{.Company}}.</p>",
	},
	{
		Name:    "Holiday hours post",
		Kind:    model.KindSocial,
		Subject: "Holiday hours",
		Body:    "We're closed Dec 24-26 and reopen Dec 27. Thanks for a great year!",
	},
}

// Seed inserts demo contacts and templates into an empty store.
func Seed(database *sql.DB) error {
	contacts, err := db.ListContacts(database, model.ContactQuery{Limit: 1})
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		for _, c := range seedContacts {
			if _, err := db.InsertContact(database, c); err != nil {
				return fmt.Errorf("failed to seed contact %s: %w", c.Email, err)
			}
		}
	}

	templates, err := db.ListTemplates(database)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		for _, t := range seedTemplates {
			if _, err := db.InsertTemplate(database, t); err != nil {
				return fmt.Errorf("failed to seed template %s: %w", t.Name, err)
			}
		}
	}
	return nil
}

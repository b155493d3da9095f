package model

import (
	"strings"
	"time"
)

// Role is a dashboard user's permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Roles lists valid roles in display order.
var Roles = []Role{RoleAdmin, RoleEditor, RoleViewer}

// ValidRole reports whether s names a role.
func ValidRole(s string) bool {
	for _, r := range Roles {
		if string(r) == s {
			return true
		}
	}
	return false
}

// User is a dashboard operator account.
type User struct {
	ID          int64
	Name        string
	Email       string
	Role        Role
	Active      bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// NewUser represents data for creating a user.
type NewUser struct {
	Name   string
	Email  string
	Role   Role
	Active bool
}

// UpdateUser represents data for updating a user.
type UpdateUser struct {
	ID     int64
	Name   string
	Email  string
	Role   Role
	Active bool
}

// Contact is a campaign recipient.
type Contact struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Phone         string // 10 national digits, or empty
	Company       string
	Tags          string // comma separated
	Subscribed    bool
	LastEmailedAt *time.Time
	CreatedAt     time.Time
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NewContact represents data for creating a contact.
type NewContact struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Company    string
	Tags       string
	Subscribed bool
}

// UpdateContact represents data for updating a contact.
type UpdateContact struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Company    string
	Tags       string
	Subscribed bool
}

// ContactQuery is a server-side filtered contact listing request.
type ContactQuery struct {
	// Filters maps column IDs to substring filters.
	Filters map[string]string
	Search  string
	Sort    []SortField
	Limit   int
}

// SortField is one ORDER BY term.
type SortField struct {
	Column string
	Desc   bool
}

// TemplateKind is the campaign type a template is written for.
type TemplateKind string

const (
	KindNewsletter TemplateKind = "newsletter"
	KindECard      TemplateKind = "ecard"
	KindSocial     TemplateKind = "social"
)

// TemplateKinds lists valid kinds in display order.
var TemplateKinds = []TemplateKind{KindNewsletter, KindECard, KindSocial}

// ValidTemplateKind reports whether s names a template kind.
func ValidTemplateKind(s string) bool {
	for _, k := range TemplateKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// Template is an email or social post template. Subject and Body use
// html/template syntax with Variables fields, e.g. {{.FirstName}}.
type Template struct {
	ID        int64
	Name      string
	Kind      TemplateKind
	Subject   string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTemplate represents data for creating a template.
type NewTemplate struct {
	Name    string
	Kind    TemplateKind
	Subject string
	Body    string
}

// UpdateTemplate represents data for updating a template.
type UpdateTemplate struct {
	ID      int64
	Name    string
	Kind    TemplateKind
	Subject string
	Body    string
}

// RecipientStatus is the delivery outcome for one campaign recipient.
type RecipientStatus string

const (
	RecipientSent   RecipientStatus = "sent"
	RecipientFailed RecipientStatus = "failed"
	RecipientQueued RecipientStatus = "queued"
)

// Campaign is one send of a template to a set of contacts.
type Campaign struct {
	ID         int64
	BatchID    string
	TemplateID int64
	Subject    string
	SentBy     int64
	CreatedAt  time.Time
}

// CampaignRow represents a campaign with recipient counts for list display.
type CampaignRow struct {
	ID           int64
	BatchID      string
	TemplateName string
	Kind         TemplateKind
	Subject      string
	SenderName   string
	Recipients   int
	Sent         int
	Failed       int
	Queued       int
	CreatedAt    time.Time
}

// CampaignRecipient is the per-contact delivery record of a campaign.
type CampaignRecipient struct {
	ID         int64
	CampaignID int64
	ContactID  int64
	Email      string
	Status     RecipientStatus
	Error      string
	SentAt     *time.Time
}

// NewCampaign represents a campaign and its recipients to record.
type NewCampaign struct {
	BatchID    string
	TemplateID int64
	Subject    string
	SentBy     int64
	Recipients []CampaignRecipient
}

// CampaignDetail represents a campaign with all its recipients.
type CampaignDetail struct {
	Campaign   CampaignRow
	Recipients []CampaignRecipient
}

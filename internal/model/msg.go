package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// StatusMsg is a transient notice for the status bar.
type StatusMsg struct {
	Text string
}

// UsersLoadedMsg is sent when users are loaded.
type UsersLoadedMsg struct {
	Users []User
}

// ContactsLoadedMsg is sent when a contact query completes. Seq is the
// request sequence of the query that produced it.
type ContactsLoadedMsg struct {
	Seq      int
	Contacts []Contact
}

// TemplatesLoadedMsg is sent when templates are loaded.
type TemplatesLoadedMsg struct {
	Templates []Template
}

// CampaignsLoadedMsg is sent when campaigns are loaded.
type CampaignsLoadedMsg struct {
	Campaigns []CampaignRow
}

// CampaignDetailLoadedMsg is sent when a campaign detail is loaded.
type CampaignDetailLoadedMsg struct {
	Detail CampaignDetail
}

// UserSavedMsg is sent when a user is successfully saved.
type UserSavedMsg struct {
	ID        int64
	Operation string // insert, update
	Before    *User
	After     User
}

// ContactSavedMsg is sent when a contact is successfully saved.
type ContactSavedMsg struct {
	ID        int64
	Operation string // insert, update
	Before    *Contact
	After     Contact
}

// TemplateSavedMsg is sent when a template is successfully saved.
type TemplateSavedMsg struct {
	ID        int64
	Operation string // insert, update
	Before    *Template
	After     Template
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// DeleteUsersMsg is sent to delete users.
type DeleteUsersMsg struct {
	Deleted []User
}

// DeleteContactsMsg is sent to delete contacts.
type DeleteContactsMsg struct {
	Deleted []Contact
}

// DeleteTemplateMsg is sent to delete a template.
type DeleteTemplateMsg struct {
	ID      int64
	Deleted Template
}

// ComposeCampaignMsg opens the send form for the given recipients.
type ComposeCampaignMsg struct {
	Recipients []Contact
}

// CampaignSentMsg is sent when a campaign send finishes.
type CampaignSentMsg struct {
	CampaignID int64
	BatchID    string
	Sent       int
	Failed     int
	Queued     int
}

// SocialPostMsg carries a generated social post.
type SocialPostMsg struct {
	TemplateID int64
	Post       string
}

// Screen represents different app screens.
type Screen int

const (
	ScreenUsers Screen = iota
	ScreenContacts
	ScreenTemplates
	ScreenCampaigns
	ScreenDetail
	ScreenUserForm
	ScreenContactForm
	ScreenTemplateForm
	ScreenSendForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)

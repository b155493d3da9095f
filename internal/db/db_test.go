package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crmdash/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedContacts(t *testing.T, db *sql.DB) []int64 {
	t.Helper()
	contacts := []model.NewContact{
		{FirstName: "Alice", LastName: "Nguyen", Email: "alice@acme.test", Phone: "(858) 369-5555", Company: "Acme", Subscribed: true},
		{FirstName: "Bob", LastName: "Stone", Email: "bob@initech.test", Phone: "619-555-0000", Company: "Initech", Subscribed: true},
		{FirstName: "Carol", LastName: "Acker", Email: "carol@home.test", Company: "100%_Organic", Subscribed: false},
		{FirstName: "dave", Email: "dave@acme.test", Company: "Acme Labs", Tags: "vip, beta", Subscribed: true},
	}
	ids := make([]int64, len(contacts))
	for i, c := range contacts {
		id, err := InsertContact(db, c)
		if err != nil {
			t.Fatalf("insert contact %s: %v", c.Email, err)
		}
		ids[i] = id
	}
	return ids
}

func names(cs []model.Contact) string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.FirstName
	}
	return strings.Join(out, ",")
}

func TestUsers(t *testing.T) {
	db := openTestDB(t)

	id, err := InsertUser(db, model.NewUser{Name: "Ada", Email: "ada@crm.test", Role: model.RoleAdmin, Active: true})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	u, err := GetUserByEmail(db, "ADA@crm.test")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.ID != id || u.Role != model.RoleAdmin || !u.Active || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user %+v", u)
	}

	if err := UpdateUser(db, model.UpdateUser{ID: id, Name: "Ada L", Email: u.Email, Role: model.RoleEditor}); err != nil {
		t.Fatalf("update user: %v", err)
	}
	if err := TouchUserLogin(db, id); err != nil {
		t.Fatalf("touch login: %v", err)
	}
	u, err = GetUser(db, id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Name != "Ada L" || u.Role != model.RoleEditor || u.Active || u.LastLoginAt == nil {
		t.Fatalf("unexpected user after update %+v", u)
	}

	if err := UpdateUser(db, model.UpdateUser{ID: 999, Name: "x", Email: "x@x", Role: model.RoleViewer}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing = %v, want ErrNotFound", err)
	}

	if err := DeleteUsers(db, []int64{id}); err != nil {
		t.Fatalf("delete users: %v", err)
	}
	if _, err := GetUser(db, id); !errors.Is(err, ErrNotFound) || !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("get deleted = %v, want ErrNotFound", err)
	}

	if err := RestoreUsers(db, []model.User{u}); err != nil {
		t.Fatalf("restore users: %v", err)
	}
	restored, err := GetUser(db, id)
	if err != nil || restored.Name != "Ada L" {
		t.Fatalf("restored = %+v, %v", restored, err)
	}
}

func TestListContactsFilters(t *testing.T) {
	db := openTestDB(t)
	seedContacts(t, db)

	tests := []struct {
		name string
		q    model.ContactQuery
		want string
	}{
		{"all", model.ContactQuery{}, "Alice,Bob,Carol,dave"},
		{"company", model.ContactQuery{Filters: map[string]string{"company": "acme"}}, "Alice,dave"},
		{"and", model.ContactQuery{Filters: map[string]string{"company": "acme", "first_name": "DA"}}, "dave"},
		{"phone digits", model.ContactQuery{Filters: map[string]string{"phone": "(858) 3"}}, "Alice"},
		{"blank filter", model.ContactQuery{Filters: map[string]string{"company": "  "}}, "Alice,Bob,Carol,dave"},
		{"unknown column", model.ContactQuery{Filters: map[string]string{"password": "x"}}, "Alice,Bob,Carol,dave"},
		{"wildcards escaped", model.ContactQuery{Filters: map[string]string{"company": "%_"}}, "Carol"},
		{"subscribed", model.ContactQuery{Filters: map[string]string{"subscribed": "no"}}, "Carol"},
		{"search name", model.ContactQuery{Search: "alice ngu"}, "Alice"},
		{"search email", model.ContactQuery{Search: "initech.test"}, "Bob"},
		{"search phone", model.ContactQuery{Search: "555"}, "Alice,Bob"},
		{"search formatted phone", model.ContactQuery{Search: "858-369"}, "Alice"},
		{"search formatted phone parens", model.ContactQuery{Search: "(619) 555"}, "Bob"},
		{"search and filter", model.ContactQuery{Search: "acme", Filters: map[string]string{"tags": "vip"}}, "dave"},
		{"sort desc", model.ContactQuery{Sort: []model.SortField{{Column: "first_name", Desc: true}}}, "dave,Carol,Bob,Alice"},
		{"sort multi", model.ContactQuery{Sort: []model.SortField{{Column: "subscribed"}, {Column: "last_name"}}}, "Carol,Alice,Bob,dave"},
		{"sort missing last asc", model.ContactQuery{Sort: []model.SortField{{Column: "last_name"}}}, "Carol,Alice,Bob,dave"},
		{"sort missing last desc", model.ContactQuery{Sort: []model.SortField{{Column: "last_name", Desc: true}}}, "Bob,Alice,Carol,dave"},
		{"sort phone missing last", model.ContactQuery{Sort: []model.SortField{{Column: "phone"}}}, "Bob,Alice,Carol,dave"},
		{"sort unknown", model.ContactQuery{Sort: []model.SortField{{Column: "1; DROP TABLE contacts"}}}, "Alice,Bob,Carol,dave"},
		{"limit", model.ContactQuery{Limit: 2}, "Alice,Bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListContacts(db, tt.q)
			if err != nil {
				t.Fatalf("list contacts: %v", err)
			}
			if names(got) != tt.want {
				t.Fatalf("got %s, want %s", names(got), tt.want)
			}
		})
	}
}

func TestContactPhoneStoredAsDigits(t *testing.T) {
	db := openTestDB(t)
	ids := seedContacts(t, db)
	c, err := GetContact(db, ids[0])
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if c.Phone != "8583695555" {
		t.Fatalf("phone = %q", c.Phone)
	}
	if c.FullName() != "Alice Nguyen" {
		t.Fatalf("full name = %q", c.FullName())
	}
}

func TestDeleteAndRestoreContacts(t *testing.T) {
	db := openTestDB(t)
	ids := seedContacts(t, db)
	before, err := ListContacts(db, model.ContactQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if err := DeleteContacts(db, ids[:2]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after, _ := ListContacts(db, model.ContactQuery{})
	if names(after) != "Carol,dave" {
		t.Fatalf("after delete = %s", names(after))
	}

	if err := RestoreContacts(db, before[:2]); err != nil {
		t.Fatalf("restore: %v", err)
	}
	restored, _ := ListContacts(db, model.ContactQuery{})
	if names(restored) != "Alice,Bob,Carol,dave" {
		t.Fatalf("after restore = %s", names(restored))
	}
	if restored[0].ID != ids[0] || !restored[0].CreatedAt.Equal(before[0].CreatedAt.Truncate(time.Second)) {
		t.Fatalf("restored contact mismatch %+v", restored[0])
	}
}

func TestTemplates(t *testing.T) {
	db := openTestDB(t)
	id, err := InsertTemplate(db, model.NewTemplate{Name: "Holiday", Kind: model.KindECard, Subject: "Happy holidays {{.FirstName}}", Body: "<p>Hi</p>"})
	if err != nil {
		t.Fatalf("insert template: %v", err)
	}
	if _, err := InsertTemplate(db, model.NewTemplate{Name: "Bad", Kind: "fax", Body: "x"}); err == nil {
		t.Fatal("expected kind check to fail")
	}
	if err := UpdateTemplate(db, model.UpdateTemplate{ID: id, Name: "Holiday 2025", Kind: model.KindECard, Body: "<p>Hello</p>"}); err != nil {
		t.Fatalf("update template: %v", err)
	}
	tpl, err := GetTemplate(db, id)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if tpl.Name != "Holiday 2025" || tpl.Subject != "" || tpl.Body != "<p>Hello</p>" {
		t.Fatalf("unexpected template %+v", tpl)
	}
	if err := DeleteTemplate(db, id); err != nil {
		t.Fatalf("delete template: %v", err)
	}
	list, _ := ListTemplates(db)
	if len(list) != 0 {
		t.Fatalf("templates after delete = %d", len(list))
	}
	if err := InsertTemplateWithID(db, tpl); err != nil {
		t.Fatalf("restore template: %v", err)
	}
	if _, err := GetTemplate(db, id); err != nil {
		t.Fatalf("get restored: %v", err)
	}
}

func TestCampaigns(t *testing.T) {
	db := openTestDB(t)
	ids := seedContacts(t, db)
	userID, _ := InsertUser(db, model.NewUser{Name: "Ada", Email: "ada@crm.test", Role: model.RoleAdmin, Active: true})
	tplID, _ := InsertTemplate(db, model.NewTemplate{Name: "News", Kind: model.KindNewsletter, Subject: "News", Body: "b"})

	now := time.Now()
	campaignID, err := InsertCampaign(db, model.NewCampaign{
		BatchID:    "batch-1",
		TemplateID: tplID,
		Subject:    "News",
		SentBy:     userID,
		Recipients: []model.CampaignRecipient{
			{ContactID: ids[0], Email: "alice@acme.test", Status: model.RecipientSent, SentAt: &now},
			{ContactID: ids[1], Email: "bob@initech.test", Status: model.RecipientFailed, Error: "mailbox full"},
			{ContactID: ids[3], Email: "dave@acme.test", Status: model.RecipientQueued},
		},
	})
	if err != nil {
		t.Fatalf("insert campaign: %v", err)
	}

	list, err := ListCampaigns(db)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("campaigns = %d", len(list))
	}
	c := list[0]
	if c.TemplateName != "News" || c.SenderName != "Ada" || c.Recipients != 3 || c.Sent != 1 || c.Failed != 1 || c.Queued != 1 {
		t.Fatalf("unexpected campaign row %+v", c)
	}

	alice, _ := GetContact(db, ids[0])
	bob, _ := GetContact(db, ids[1])
	if alice.LastEmailedAt == nil || bob.LastEmailedAt != nil {
		t.Fatalf("last emailed: alice=%v bob=%v", alice.LastEmailedAt, bob.LastEmailedAt)
	}

	detail, err := GetCampaignDetail(db, campaignID)
	if err != nil {
		t.Fatalf("campaign detail: %v", err)
	}
	if len(detail.Recipients) != 3 || detail.Recipients[1].Error != "mailbox full" || detail.Recipients[0].SentAt == nil {
		t.Fatalf("unexpected recipients %+v", detail.Recipients)
	}

	DeleteTemplate(db, tplID)
	list, _ = ListCampaigns(db)
	if list[0].TemplateName != DeletedTemplateName {
		t.Fatalf("template name after delete = %q", list[0].TemplateName)
	}

	if _, err := GetCampaignDetail(db, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing campaign = %v", err)
	}
}

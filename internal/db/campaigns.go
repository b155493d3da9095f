package db

import (
	"database/sql"
	"fmt"
	"time"

	"crmdash/internal/model"
)

// DeletedTemplateName is shown for campaigns whose template was removed.
const DeletedTemplateName = "(deleted template)"

const campaignRowQuery = `
	SELECT
		c.id,
		c.batch_id,
		COALESCE(t.name, '` + DeletedTemplateName + `'),
		COALESCE(t.kind, ''),
		COALESCE(c.subject, ''),
		COALESCE(u.name, ''),
		COUNT(r.id),
		COALESCE(SUM(CASE r.status WHEN 'sent' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE r.status WHEN 'failed' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE r.status WHEN 'queued' THEN 1 ELSE 0 END), 0),
		c.created_at
	FROM campaigns c
	LEFT JOIN templates t ON t.id = c.template_id
	LEFT JOIN users u ON u.id = c.sent_by
	LEFT JOIN campaign_recipients r ON r.campaign_id = c.id
`

func scanCampaignRow(s rowScanner) (model.CampaignRow, error) {
	var c model.CampaignRow
	var kind, createdAt string
	if err := s.Scan(&c.ID, &c.BatchID, &c.TemplateName, &kind, &c.Subject, &c.SenderName,
		&c.Recipients, &c.Sent, &c.Failed, &c.Queued, &createdAt); err != nil {
		return model.CampaignRow{}, err
	}
	c.Kind = model.TemplateKind(kind)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// InsertCampaign records a campaign and its recipients in one transaction
// and stamps last_emailed_at on contacts that were sent to.
func InsertCampaign(db *sql.DB, c model.NewCampaign) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.Exec(`INSERT INTO campaigns (batch_id, template_id, subject, sent_by, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.BatchID, c.TemplateID, nullable(c.Subject), c.SentBy, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to insert campaign: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO campaign_recipients (campaign_id, contact_id, email, status, error, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare recipient insert: %w", err)
	}
	defer stmt.Close()

	var sent []int64
	for _, r := range c.Recipients {
		if _, err := stmt.Exec(id, r.ContactID, r.Email, string(r.Status), nullable(r.Error), formatTimePtr(r.SentAt)); err != nil {
			return 0, fmt.Errorf("failed to insert recipient %s: %w", r.Email, err)
		}
		if r.Status == model.RecipientSent && r.ContactID != 0 {
			sent = append(sent, r.ContactID)
		}
	}
	if err := markContactsEmailed(tx, sent, now); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListCampaigns retrieves all campaigns with recipient counts, newest first.
func ListCampaigns(db *sql.DB) ([]model.CampaignRow, error) {
	rows, err := db.Query(campaignRowQuery + ` GROUP BY c.id ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var results []model.CampaignRow
	for rows.Next() {
		c, err := scanCampaignRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}
	return results, nil
}

// GetCampaignDetail retrieves a campaign with all its recipients.
func GetCampaignDetail(db *sql.DB, id int64) (model.CampaignDetail, error) {
	c, err := scanCampaignRow(db.QueryRow(campaignRowQuery+` WHERE c.id = ? GROUP BY c.id`, id))
	if err != nil {
		return model.CampaignDetail{}, notFound(err, "campaign")
	}

	rows, err := db.Query(`
		SELECT id, campaign_id, COALESCE(contact_id, 0), email, status, COALESCE(error, ''), sent_at
		FROM campaign_recipients
		WHERE campaign_id = ?
		ORDER BY id
	`, id)
	if err != nil {
		return model.CampaignDetail{}, fmt.Errorf("failed to get recipients: %w", err)
	}
	defer rows.Close()

	var recipients []model.CampaignRecipient
	for rows.Next() {
		var r model.CampaignRecipient
		var status string
		var sentAt sql.NullString
		if err := rows.Scan(&r.ID, &r.CampaignID, &r.ContactID, &r.Email, &status, &r.Error, &sentAt); err != nil {
			return model.CampaignDetail{}, fmt.Errorf("failed to scan recipient: %w", err)
		}
		r.Status = model.RecipientStatus(status)
		r.SentAt = parseTimePtr(sentAt)
		recipients = append(recipients, r)
	}
	if err := rows.Err(); err != nil {
		return model.CampaignDetail{}, fmt.Errorf("error iterating recipients: %w", err)
	}

	return model.CampaignDetail{Campaign: c, Recipients: recipients}, nil
}

package mail

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"crmdash/internal/db"
	"crmdash/internal/model"
)

var (
	// ErrNoRecipients is returned when a campaign has nobody to send to.
	ErrNoRecipients = errors.New("no recipients")

	// ErrSocialTemplate is returned when a social template is sent as email.
	ErrSocialTemplate = errors.New("social templates are posted, not emailed")
)

// Result summarizes a campaign send.
type Result struct {
	CampaignID int64
	BatchID    string
	Sent       int
	Failed     int
	Queued     int
}

// Service renders and sends campaigns and records their outcome.
type Service struct {
	db       *sql.DB
	sender   Sender
	renderer *Renderer
	now      func() time.Time
}

// NewService creates a campaign service delivering through sender.
func NewService(database *sql.DB, sender Sender) *Service {
	return &Service{
		db:       database,
		sender:   sender,
		renderer: NewRenderer(),
		now:      time.Now,
	}
}

// Renderer returns the service's template renderer.
func (s *Service) Renderer() *Renderer { return s.renderer }

// Queues reports whether sends are recorded without delivery.
func (s *Service) Queues() bool {
	q, ok := s.sender.(queuer)
	return ok && q.Queues()
}

// SendCampaign renders t for every contact, sends it and records the
// campaign. Unsubscribed contacts and render errors are recorded as failed.
// When ctx is cancelled the remaining recipients are recorded as queued.
func (s *Service) SendCampaign(ctx context.Context, t model.Template, contacts []model.Contact, sender model.User) (Result, error) {
	if t.Kind == model.KindSocial {
		return Result{}, ErrSocialTemplate
	}
	if len(contacts) == 0 {
		return Result{}, ErrNoRecipients
	}
	if err := s.renderer.Validate(t); err != nil {
		return Result{}, err
	}

	batchID := uuid.NewString()
	queues := s.Queues()
	res := Result{BatchID: batchID}
	recipients := make([]model.CampaignRecipient, 0, len(contacts))

	for _, c := range contacts {
		r := model.CampaignRecipient{ContactID: c.ID, Email: c.Email}
		switch {
		case ctx.Err() != nil:
			r.Status = model.RecipientQueued
		case !c.Subscribed:
			r.Status = model.RecipientFailed
			r.Error = "unsubscribed"
		default:
			r.Status, r.Error = s.deliver(ctx, t, c, sender.Name, queues)
			if r.Status == model.RecipientSent {
				at := s.now()
				r.SentAt = &at
			}
		}
		switch r.Status {
		case model.RecipientSent:
			res.Sent++
		case model.RecipientFailed:
			res.Failed++
		default:
			res.Queued++
		}
		recipients = append(recipients, r)
	}

	id, err := db.InsertCampaign(s.db, model.NewCampaign{
		BatchID:    batchID,
		TemplateID: t.ID,
		Subject:    t.Subject,
		SentBy:     sender.ID,
		Recipients: recipients,
	})
	if err != nil {
		return res, fmt.Errorf("failed to record campaign: %w", err)
	}
	res.CampaignID = id
	log.Printf("campaign %s: template %d, %d sent, %d failed, %d queued", batchID, t.ID, res.Sent, res.Failed, res.Queued)

	return res, ctx.Err()
}

func (s *Service) deliver(ctx context.Context, t model.Template, c model.Contact, senderName string, queues bool) (model.RecipientStatus, string) {
	msg, err := s.renderer.Render(t, VariablesFor(c, senderName))
	if err != nil {
		return model.RecipientFailed, err.Error()
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		if ctx.Err() != nil {
			return model.RecipientQueued, ""
		}
		log.Printf("campaign: send to %s failed: %v", c.Email, err)
		return model.RecipientFailed, err.Error()
	}
	if queues {
		return model.RecipientQueued, ""
	}
	return model.RecipientSent, ""
}

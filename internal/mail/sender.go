package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"sync"
)

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host      string `env:"SMTP_HOST"`
	Port      int    `env:"SMTP_PORT" envDefault:"587"`
	Username  string `env:"SMTP_USERNAME"`
	Password  string `env:"SMTP_PASSWORD"`
	FromName  string `env:"SMTP_FROM_NAME" envDefault:"crmdash"`
	FromEmail string `env:"SMTP_FROM_EMAIL"`
}

// Enabled reports whether enough is configured to send.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.FromEmail != ""
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// queuer is implemented by senders that accept messages without delivering
// them.
type queuer interface {
	Queues() bool
}

// SMTPSender sends mail through an SMTP server using STARTTLS.
type SMTPSender struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a sender for cfg.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

// Send delivers msg. smtp.SendMail upgrades to TLS when the server offers
// STARTTLS.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.FromEmail, []string{msg.To}, s.build(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	if msg.IsHTML {
		b.WriteString("MIME-Version: 1.0\r\n")
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// OutboxSender records messages instead of delivering them. It is used when
// SMTP is not configured; recipients are recorded as queued.
type OutboxSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewOutboxSender creates an empty outbox.
func NewOutboxSender() *OutboxSender {
	return &OutboxSender{}
}

// Send appends msg to the outbox.
func (o *OutboxSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	log.Printf("outbox: queued %q for %s", msg.Subject, msg.To)
	return nil
}

// Queues reports that the outbox never delivers.
func (o *OutboxSender) Queues() bool { return true }

// Messages returns a copy of the recorded messages.
func (o *OutboxSender) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Message, len(o.sent))
	copy(out, o.sent)
	return out
}

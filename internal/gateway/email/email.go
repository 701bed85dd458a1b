// Package email renders notification emails and hands them to the relay.
package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/mrz1836/postmark"
	"go.uber.org/zap"
	"notifyd/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	ErrInvalidMessage = errors.New("invalid email message")
	ErrSendFailed     = errors.New("failed to send email")
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

func (m Message) Validate() error {
	if m.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	return nil
}

type Relay interface {
	// Send returns the relay message id.
	Send(ctx context.Context, msg Message) (string, error)
}

// TemplateData is the view of a notification the layout renders.
type TemplateData struct {
	Title     string
	Body      string
	ActionURL string
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "new_notification.html", data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

type PostmarkRelay struct {
	client *postmark.Client
	from   string
	reply  string
}

func NewPostmarkRelay(serverToken, accountToken, from, replyTo string) *PostmarkRelay {
	return &PostmarkRelay{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
		reply:  replyTo,
	}
}

func (r *PostmarkRelay) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	resp, err := r.client.SendEmail(ctx, postmark.Email{
		From:       r.from,
		ReplyTo:    r.reply,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        "notification",
		HTMLBody:   msg.HTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return "", errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return "", errors.Join(ErrSendFailed, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return resp.MessageID, nil
}

// LogRelay only logs emails. Used when no Postmark token is configured.
type LogRelay struct {
	log *zap.Logger
}

func NewLogRelay(logger *zap.Logger) *LogRelay {
	return &LogRelay{log: logger}
}

func (r *LogRelay) Send(_ context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	r.log.Info("email send (log only)",
		zap.String("message_id", id),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return id, nil
}

func New(cfg *config.Config, logger *zap.Logger) Relay {
	if cfg.PostmarkServerToken == "" {
		logger.Warn("POSTMARK_SERVER_TOKEN not set, emails are only logged")
		return NewLogRelay(logger)
	}
	return NewPostmarkRelay(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.SenderEmail, cfg.SupportEmail)
}

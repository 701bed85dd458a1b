package channel

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"notifyd/internal/directory"
	"notifyd/internal/domain"
	"notifyd/internal/gateway/email"
	"notifyd/internal/model"
)

type EmailDispatcher struct {
	directory directory.Directory
	renderer  *email.Renderer
	relay     email.Relay
	log       *zap.Logger
	now       func() time.Time
}

func NewEmailDispatcher(dir directory.Directory, renderer *email.Renderer, relay email.Relay, logger *zap.Logger) *EmailDispatcher {
	return &EmailDispatcher{directory: dir, renderer: renderer, relay: relay, log: logger, now: time.Now}
}

func (d *EmailDispatcher) Send(ctx context.Context, n model.Notification) (result Result) {
	defer recoverResult(d.log, NameEmail, n.RecipientID, &result)

	profile, err := d.directory.Lookup(ctx, n.RecipientID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return Failed(domain.ReasonNoEmail)
	case err != nil:
		d.log.Error("profile lookup failed", zap.String("recipient_id", n.RecipientID), zap.Error(err))
		return Failed(err.Error())
	}
	if profile.Email == "" {
		return Failed(domain.ReasonNoEmail)
	}

	html, err := d.renderer.Render(email.TemplateData{Title: n.Title, Body: n.Body, ActionURL: n.ActionURL})
	if err != nil {
		return Failed(err.Error())
	}
	messageID, err := d.relay.Send(ctx, email.Message{To: profile.Email, Subject: n.Title, HTML: html})
	if err != nil {
		if ctx.Err() != nil {
			return Failed(domain.ReasonTimeout)
		}
		d.log.Warn("email relay send failed",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.RecipientID),
			zap.Error(err),
		)
		return Failed(err.Error())
	}
	d.log.Debug("email sent", zap.String("notification_id", n.ID), zap.String("message_id", messageID))
	return Sent(d.now().UTC())
}

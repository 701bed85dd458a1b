// Package alert fans administrative alerts out to every active admin.
package alert

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"notifyd/internal/directory"
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

type Request struct {
	Title    string          `json:"title" binding:"required,max=200"`
	Body     string          `json:"body" binding:"required,max=500"`
	Severity domain.Severity `json:"severity" binding:"required,oneof=low medium high critical"`
}

type Creator interface {
	Create(ctx context.Context, req model.CreationRequest) (model.Notification, error)
}

type Service struct {
	directory directory.Directory
	creator   Creator
	log       *zap.Logger
}

func NewService(dir directory.Directory, creator Creator, logger *zap.Logger) *Service {
	return &Service{directory: dir, creator: creator, log: logger}
}

// Raise creates one admin_alert per active admin. A failure for one admin
// does not stop the others; all failures are joined into the returned error.
func (s *Service) Raise(ctx context.Context, req Request) ([]model.Notification, error) {
	priority, err := domain.PriorityForSeverity(req.Severity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	admins, err := s.directory.ActiveAdmins(ctx)
	if err != nil {
		s.log.Error("list active admins failed", zap.Error(err))
		return nil, fmt.Errorf("list active admins: %w", err)
	}
	if len(admins) == 0 {
		s.log.Warn("admin alert dropped, no active admins", zap.String("title", req.Title))
		return nil, domain.ErrNoActiveAdmins
	}

	created := make([]model.Notification, 0, len(admins))
	var errs []error
	for _, admin := range admins {
		n, err := s.creator.Create(ctx, model.CreationRequest{
			RecipientID:   admin.ID,
			RecipientType: domain.RecipientAdmin,
			Type:          domain.NotificationTypeAdminAlert,
			Title:         req.Title,
			Body:          req.Body,
			Priority:      priority,
			ActionData:    map[string]any{"severity": string(req.Severity)},
			ForceEmail:    req.Severity == domain.SeverityCritical,
		})
		if err != nil {
			s.log.Error("admin alert create failed", zap.String("recipient_id", admin.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("admin %s: %w", admin.ID, err))
			continue
		}
		created = append(created, n)
	}
	return created, errors.Join(errs...)
}

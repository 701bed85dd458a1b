// Package channel holds the three independent senders used by the dispatch
// orchestrator. Dispatchers never return errors: every failure is a Result.
package channel

import (
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"notifyd/internal/domain"
	"notifyd/internal/model"
)

const (
	NameRealtime = "realtime"
	NamePush     = "push"
	NameEmail    = "email"
)

type Result struct {
	Sent   bool
	SentAt *time.Time
	Error  string
}

func Sent(at time.Time) Result {
	return Result{Sent: true, SentAt: &at}
}

func Failed(reason string) Result {
	return Result{Error: clampReason(reason)}
}

// State converts the result into the stored channel state. The error is
// clamped so a verbose upstream message always fits its column.
func (r Result) State() model.DeliveryState {
	return model.DeliveryState{Enabled: true, Sent: r.Sent, SentAt: r.SentAt, Error: clampReason(r.Error)}
}

func clampReason(reason string) string {
	if utf8.RuneCountInString(reason) <= domain.MaxErrorLength {
		return reason
	}
	return string([]rune(reason)[:domain.MaxErrorLength])
}

type RealtimeResult struct {
	Delivered bool
}

func recoverResult(log *zap.Logger, channel, recipientID string, out *Result) {
	if rec := recover(); rec != nil {
		log.Error("channel dispatcher panicked",
			zap.String("channel", channel),
			zap.String("recipient_id", recipientID),
			zap.Any("panic", rec),
		)
		*out = Failed(fmt.Sprintf("panic: %v", rec))
	}
}

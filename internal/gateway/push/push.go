// Package push talks to the mobile/web push gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"notifyd/internal/config"
	"notifyd/internal/domain"
)

// Message is one batched send. Priority is on the gateway's 0-10 scale.
type Message struct {
	Tokens   []string       `json:"tokens"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data,omitempty"`
	Priority int            `json:"priority"`
}

type Gateway interface {
	// Send returns the gateway message id.
	Send(ctx context.Context, msg Message) (string, error)
}

var ErrGatewayRejected = errors.New("push gateway rejected request")

var levels = map[domain.Priority]int{
	domain.PriorityLow:    3,
	domain.PriorityMedium: 5,
	domain.PriorityHigh:   8,
	domain.PriorityUrgent: 10,
}

// Level maps a notification priority to the gateway scale. Unknown priorities
// are sent as medium.
func Level(p domain.Priority) int {
	if l, ok := levels[p]; ok {
		return l
	}
	return levels[domain.PriorityMedium]
}

type HTTPGateway struct {
	url    string
	key    string
	client *http.Client
}

func NewHTTPGateway(url, key string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url: url,
		key: key,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

func (g *HTTPGateway) Send(ctx context.Context, msg Message) (string, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode push message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.key != "" {
		req.Header.Set("Authorization", "Bearer "+g.key)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("push gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read push gateway response: %w", err)
	}
	var out sendResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if out.Error != "" {
			return "", fmt.Errorf("%w: %d %s", ErrGatewayRejected, resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("%w: %d", ErrGatewayRejected, resp.StatusCode)
	}
	return out.MessageID, nil
}

// LogGateway only logs sends. Used when no gateway URL is configured.
type LogGateway struct {
	log *zap.Logger
}

func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{log: logger}
}

func (g *LogGateway) Send(_ context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	g.log.Info("push send (log only)",
		zap.String("message_id", id),
		zap.Int("tokens", len(msg.Tokens)),
		zap.String("title", msg.Title),
		zap.Int("priority", msg.Priority),
	)
	return id, nil
}

func New(cfg *config.Config, logger *zap.Logger) Gateway {
	if cfg.PushGatewayURL == "" {
		logger.Warn("PUSH_GATEWAY_URL not set, push sends are only logged")
		return NewLogGateway(logger)
	}
	return NewHTTPGateway(cfg.PushGatewayURL, cfg.PushGatewayKey, cfg.ChannelTimeout)
}

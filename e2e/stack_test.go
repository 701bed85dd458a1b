package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifyd/internal/channel"
	"notifyd/internal/config"
	"notifyd/internal/directory"
	"notifyd/internal/events"
	"notifyd/internal/gateway/email"
	"notifyd/internal/gateway/push"
	httpserver "notifyd/internal/http"
	"notifyd/internal/http/controller"
	"notifyd/internal/metrics"
	"notifyd/internal/preference"
	"notifyd/internal/presence"
	"notifyd/internal/queue"
	"notifyd/internal/service/alert"
	"notifyd/internal/service/notify"
	"notifyd/internal/sse"
	"notifyd/internal/store/memory"
)

func ginTestMode() {
	gin.SetMode(gin.TestMode)
}

// loopback hands published events straight to the routing layer, standing in
// for the bus round trip.
func loopback(s *stack) queue.Publisher {
	return queue.PublisherFunc(func(ctx context.Context, payload []byte, routingKey string) error {
		if routingKey == string(events.TopicAdminAlert) {
			var req alert.Request
			if err := json.Unmarshal(payload, &req); err != nil {
				return err
			}
			_, err := s.alerts.Raise(ctx, req)
			return err
		}
		_, err := s.events.Handle(ctx, routingKey, payload)
		return err
	})
}

type recordingRelay struct {
	mu   sync.Mutex
	sent []email.Message
}

func (r *recordingRelay) Send(_ context.Context, msg email.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return "relay-id", nil
}

func (r *recordingRelay) Sent() []email.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]email.Message(nil), r.sent...)
}

type pushRecorder struct {
	mu       sync.Mutex
	messages []push.Message
}

func (p *pushRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var msg push.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]string{"message_id": "push-id"})
}

func (p *pushRecorder) Messages() []push.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]push.Message(nil), p.messages...)
}

type stack struct {
	cfg       *config.Config
	store     *memory.Store
	directory *directory.Static
	resolver  *preference.Resolver
	notify    *notify.Service
	events    *events.Router
	alerts    *alert.Service
	relay     *recordingRelay
	push      *pushRecorder
	presence  *presence.Registry
	server    *httptest.Server
}

// newStack wires the whole service in process. publisher may be nil, in which
// case published events loop back into the router.
func newStack(t *testing.T, cfg *config.Config, publisher func(s *stack) queue.Publisher) *stack {
	t.Helper()
	ginTestMode()

	logger := zap.NewNop()
	m := metrics.New()
	s := &stack{
		cfg:       cfg,
		store:     memory.New(logger),
		directory: directory.NewStatic(),
		relay:     &recordingRelay{},
		push:      &pushRecorder{},
	}

	pushServer := httptest.NewServer(s.push)
	t.Cleanup(pushServer.Close)

	hub := sse.NewHub(m)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	registry := presence.NewRegistry(m)
	s.presence = registry
	s.resolver = preference.NewResolver(s.store, time.UTC, logger)
	renderer, err := email.NewRenderer()
	require.NoError(t, err)

	dispatchers := notify.Dispatchers{
		Realtime: channel.NewRealtimeDispatcher(hub, registry),
		Push:     channel.NewPushDispatcher(s.resolver, push.NewHTTPGateway(pushServer.URL, "test-key", 2*time.Second), logger),
		Email:    channel.NewEmailDispatcher(s.directory, renderer, s.relay, logger),
	}
	s.notify = notify.NewService(s.store, s.resolver, dispatchers, m, 2*time.Second, logger)
	s.events = events.NewRouter(s.directory, s.notify, m, time.UTC, logger)
	s.alerts = alert.NewService(s.directory, s.notify, logger)

	if publisher == nil {
		publisher = loopback
	}
	pub := publisher(s)

	handler := controller.NewHandler(cfg, s.notify, s.resolver, s.alerts, hub, registry, pub, logger)
	s.server = httptest.NewServer(httpserver.NewRouter(cfg, handler, m, logger))
	t.Cleanup(s.server.Close)
	return s
}

// openSSE connects a stream and waits until the recipient counts as present.
func (s *stack) openSSE(t *testing.T, recipientID string, limit int) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.server.URL+"/sse/"+recipientID+"?limit="+strconv.Itoa(limit), nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Eventually(t, func() bool { return s.presence.IsConnected(recipientID) }, 2*time.Second, 10*time.Millisecond)
	return bufio.NewReader(res.Body)
}

func readSSEData(reader *bufio.Reader, timeout time.Duration) (string, error) {
	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{"", err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ch <- result{strings.Join(dataLines, "\n"), nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-time.After(timeout):
		return "", context.DeadlineExceeded
	}
}

package tracking

import (
	"context"
	"net/http"
	"time"

	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	sessionEvent uint16 = 0
	searchEvent  uint16 = 1
)

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

type SearchEventData struct {
	*BaseEvent
	types.SearchEvent
}

type sendFunc func(ctx context.Context, items []any) error

// RabbitTracking queues events and publishes them in batches to the
// tracking topic.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	queue      *common.QueueHandler[any]
	send       sendFunc
	logger     *zap.Logger
}

type Options struct {
	Country       string
	BatchSize     int
	FlushInterval time.Duration
}

func NewRabbitTracking(cfg messaging.RabbitConfig, opts Options, logger *zap.Logger) (*RabbitTracking, error) {
	conn, err := amqp.Dial(cfg.Url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, cfg.Prefix, messaging.TrackingTopic); err != nil {
		conn.Close()
		return nil, err
	}
	send := func(ctx context.Context, items []any) error {
		return messaging.SendChanges(ctx, conn, cfg.Prefix, messaging.TrackingTopic, items...)
	}
	t := newRabbitTracking(send, opts, logger)
	t.connection = conn
	return t, nil
}

func newRabbitTracking(send sendFunc, opts Options, logger *zap.Logger) *RabbitTracking {
	t := &RabbitTracking{
		country: opts.Country,
		send:    send,
		logger:  logging.OrNop(logger),
	}
	t.queue = common.NewQueueHandler[any](t.flush, max(opts.BatchSize, 1), opts.FlushInterval)
	return t
}

func (rt *RabbitTracking) flush(items []any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.send(ctx, items); err != nil {
		rt.logger.Error("sending tracking events", zap.Int("events", len(items)), zap.Error(err))
	}
}

// Close publishes what is still queued and closes the connection.
func (rt *RabbitTracking) Close() error {
	rt.queue.Stop()
	if rt.connection == nil {
		return nil
	}
	return rt.connection.Close()
}

func (rt *RabbitTracking) base(sessionId string, event uint16) *BaseEvent {
	return &BaseEvent{Event: event, SessionId: sessionId, Country: rt.country, Context: "b2c"}
}

func (rt *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	rt.queue.Add(Session{
		BaseEvent:    rt.base(sessionId, sessionEvent),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	})
}

func (rt *RabbitTracking) TrackSearch(event types.SearchEvent) {
	rt.queue.Add(SearchEventData{
		BaseEvent:   rt.base(event.SessionId, searchEvent),
		SearchEvent: event,
	})
}

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const DefaultExchange = "matching.events"

type Type string

const (
	TypeRankingCompleted      Type = "ranking.completed"
	TypeRequirementsUpdated   Type = "requirements.updated"
	TypeEmployeeSkillsUpdated Type = "employee_skills.updated"
	TypeSkillCreated          Type = "skill.created"
	TypeAllocationCreated     Type = "allocation.created"
)

// Event is the envelope published on the matching exchange. The routing key is Type.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       Type           `json:"type"`
	CompanyID  uuid.UUID      `json:"company_id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	ProjectID  *uuid.UUID     `json:"project_id,omitempty"`
	ProfileID  *uuid.UUID     `json:"profile_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
	logger   *zap.Logger

	mu sync.Mutex
}

// NewAMQPPublisher declares a durable topic exchange. An empty URI yields a disabled
// publisher that drops every event.
func NewAMQPPublisher(uri, exchange string, logger *zap.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	exchange = strings.TrimSpace(exchange)
	if exchange == "" {
		exchange = DefaultExchange
	}
	if strings.TrimSpace(uri) == "" {
		logger.Warn("rabbitmq uri is empty, event publishing is disabled")
		return &AMQPPublisher{exchange: exchange, logger: logger}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.Info("event publisher initialized", zap.String("exchange", exchange))

	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
		logger:   logger,
	}, nil
}

func (p *AMQPPublisher) Enabled() bool {
	return p != nil && p.enabled
}

func (p *AMQPPublisher) Publish(ctx context.Context, evt Event) error {
	if !p.Enabled() {
		return nil
	}
	evt = Normalize(evt)

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	headers := amqp091.Table{
		"event_type": string(evt.Type),
		"company_id": evt.CompanyID.String(),
	}
	if evt.ProjectID != nil {
		headers["project_id"] = evt.ProjectID.String()
	}

	// amqp channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, string(evt.Type), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    evt.ID.String(),
		Timestamp:    evt.OccurredAt,
		Body:         body,
		Headers:      headers,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}

	p.logger.Debug("event published", zap.String("type", string(evt.Type)), zap.String("id", evt.ID.String()))
	return nil
}

func (p *AMQPPublisher) Close() error {
	if !p.Enabled() {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("close rabbitmq channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}

// Normalize fills the id and timestamp when the caller left them empty.
func Normalize(evt Event) Event {
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return evt
}

type MockPublisher struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]Event, 0)}
}

func (m *MockPublisher) Publish(_ context.Context, evt Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, Normalize(evt))
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func (m *MockPublisher) Types() []Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Type, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.Type)
	}
	return out
}

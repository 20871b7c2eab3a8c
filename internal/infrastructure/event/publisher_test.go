package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewAMQPPublisher_DisabledWithoutURI(t *testing.T) {
	p, err := NewAMQPPublisher("", "", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Enabled() {
		t.Fatalf("expected disabled publisher")
	}
	if p.exchange != DefaultExchange {
		t.Fatalf("unexpected exchange %q", p.exchange)
	}
	if err := p.Publish(context.Background(), Event{Type: TypeRankingCompleted}); err != nil {
		t.Fatalf("disabled publisher must drop events, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	evt := Normalize(Event{Type: TypeSkillCreated})
	if evt.ID == uuid.Nil || evt.OccurredAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", evt)
	}

	id := uuid.New()
	if got := Normalize(Event{ID: id}); got.ID != id {
		t.Fatalf("existing id must be kept")
	}
}

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	_ = m.Publish(context.Background(), Event{Type: TypeRequirementsUpdated})
	_ = m.Publish(context.Background(), Event{Type: TypeAllocationCreated})

	types := m.Types()
	if len(types) != 2 || types[0] != TypeRequirementsUpdated || types[1] != TypeAllocationCreated {
		t.Fatalf("unexpected types %v", types)
	}
}

package usecase

import (
	"context"
	"time"

	"talent-match/internal/infrastructure/event"

	"github.com/google/uuid"
)

// RankingCache stores ranking snapshots. Implementations must treat an unreachable backend
// as a miss.
type RankingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evt event.Event) error
}

// Notifier pushes change notices to connected dashboards.
type Notifier interface {
	NotifyRequirementsUpdated(companyID, projectID uuid.UUID)
	NotifySkillsUpdated(companyID, profileID uuid.UUID)
}

type nopNotifier struct{}

func (nopNotifier) NotifyRequirementsUpdated(uuid.UUID, uuid.UUID) {}
func (nopNotifier) NotifySkillsUpdated(uuid.UUID, uuid.UUID)       {}

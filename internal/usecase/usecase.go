package usecase

import (
	"context"

	"sharecircle/internal/domain"
)

// ItemCache is the optional read-through cache in front of item lookups.
type ItemCache interface {
	Get(ctx context.Context, id string) (*domain.Item, error)
	Set(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher emits state-transition events. Implementations must treat
// delivery as best effort; callers log failures and move on.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

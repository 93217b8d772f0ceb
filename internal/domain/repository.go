package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// ItemRepository handles persistence for listings. Create also increments the
// donor's donation counter in the same transaction.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	ListAvailable(ctx context.Context, filter ItemFilter) ([]ItemWithDonor, error)
}

// RequestRepository handles persistence for requests. Create increments the
// requester's counter in the same transaction and maps the active-request
// uniqueness guard to a conflict. Approve atomically moves the item out of
// available and the request out of pending as one unit; concurrent approvals
// on the same item resolve to exactly one success.
type RequestRepository interface {
	Create(ctx context.Context, request *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	ListByRequester(ctx context.Context, userID string) ([]RequestDetail, error)
	ListReceived(ctx context.Context, donorID string) ([]RequestDetail, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
}

// QuestionRepository handles the Q&A side channel.
type QuestionRepository interface {
	Create(ctx context.Context, question *Question) error
	GetByID(ctx context.Context, id string) (*Question, error)
	Answer(ctx context.Context, id, answer string, answeredAt time.Time) error
	ListByItem(ctx context.Context, itemID string) ([]QuestionDetail, error)
}

// LogisticsRepository handles fulfilment arrangements. Create marks the
// owning item claimed in the same transaction; Update with completed set
// marks it delivered. Both item moves are conditional on the current status
// so replays cannot regress the listing. Update writes only when the stored
// status still equals prev, so a decision taken against a stale read loses
// with a conflict instead of overwriting a concurrent transition.
type LogisticsRepository interface {
	Create(ctx context.Context, logistics *Logistics, itemID string) error
	GetByID(ctx context.Context, id string) (*Logistics, error)
	Update(ctx context.Context, logistics *Logistics, itemID string, prev LogisticsStatus, completed bool) error
}

// CommunityStats are the aggregate figures on the public dashboard.
type CommunityStats struct {
	ItemsShared     int
	WasteDivertedKg float64
	MembersHelped   int
}

// StatsRepository computes aggregates straight from the entity tables.
type StatsRepository interface {
	Summary(ctx context.Context) (*CommunityStats, error)
}

// MediaStore persists uploaded item images and returns a public reference.
type MediaStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

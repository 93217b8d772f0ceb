package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sharecircle/internal/adapter/events"
	"sharecircle/internal/domain"
)

// CreateLogisticsInput carries the arrangement attributes from the boundary.
type CreateLogisticsInput struct {
	RequestID     string
	Type          domain.LogisticsType
	ScheduledDate *time.Time
	Cost          *float64
	Notes         string
}

// ExchangeUsecase runs the request/item/logistics lifecycle. Every mutation
// here maps to exactly one transition in the tables, and every status change
// invalidates the item cache and emits an event.
type ExchangeUsecase struct {
	items     domain.ItemRepository
	requests  domain.RequestRepository
	logistics domain.LogisticsRepository
	cache     ItemCache
	events    EventPublisher
	policy    domain.LogisticsPolicy
	logger    zerolog.Logger
}

// NewExchangeUsecase creates the exchange service. cache and publisher may be
// nil.
func NewExchangeUsecase(
	items domain.ItemRepository,
	requests domain.RequestRepository,
	logistics domain.LogisticsRepository,
	cache ItemCache,
	publisher EventPublisher,
	policy domain.LogisticsPolicy,
	logger zerolog.Logger,
) *ExchangeUsecase {
	return &ExchangeUsecase{
		items:     items,
		requests:  requests,
		logistics: logistics,
		cache:     cache,
		events:    publisher,
		policy:    policy,
		logger:    logger,
	}
}

// CreateRequest registers interest in an item. Preconditions run in order:
// the item must exist, the requester cannot be the donor, the item must still
// be available, and the requester must not already hold an active request on
// it. The last guard is enforced by the storage layer.
func (uc *ExchangeUsecase) CreateRequest(ctx context.Context, requesterID, itemID, message string, logisticsType domain.LogisticsType) (*domain.Request, error) {
	if !domain.ValidLogisticsType(logisticsType) {
		return nil, domain.ValidationError("logisticsType must be pickup or delivery")
	}

	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.DonorID == requesterID {
		return nil, domain.ValidationError("cannot request your own item")
	}
	if item.Status != domain.ItemStatusAvailable {
		return nil, domain.ConflictError("item is no longer available")
	}

	request := &domain.Request{
		ID:            uuid.NewString(),
		ItemID:        itemID,
		RequesterID:   requesterID,
		Message:       strings.TrimSpace(message),
		LogisticsType: logisticsType,
		Status:        domain.RequestStatusPending,
		RequestedAt:   time.Now().UTC(),
	}
	if err := uc.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("request_id", request.ID).Str("item_id", itemID).Msg("request created")
	return request, nil
}

// ListRequests returns the caller's dashboard view. direction "received"
// lists requests on the caller's items; anything else lists requests the
// caller made.
func (uc *ExchangeUsecase) ListRequests(ctx context.Context, userID, direction string) ([]domain.RequestDetail, error) {
	if direction == "received" {
		return uc.requests.ListReceived(ctx, userID)
	}
	return uc.requests.ListByRequester(ctx, userID)
}

// SetRequestStatus is the donor's decision on a pending request. Approval
// also moves the item to pending as one atomic unit; when two approvals race
// on the same item exactly one wins.
func (uc *ExchangeUsecase) SetRequestStatus(ctx context.Context, actorID, requestID string, next domain.RequestStatus) (*domain.Request, error) {
	request, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, request.ItemID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actorID, domain.RelationDonor, domain.Parties{Donor: item.DonorID},
		"not authorized to update this request"); err != nil {
		return nil, err
	}
	if err := domain.NextRequestStatus(request.Status, next); err != nil {
		return nil, err
	}

	if next == domain.RequestStatusApproved {
		err = uc.requests.Approve(ctx, requestID)
	} else {
		err = uc.requests.Reject(ctx, requestID)
	}
	if err != nil {
		return nil, err
	}
	request.Status = next

	uc.invalidateItem(ctx, request.ItemID)
	uc.publish(ctx, events.SubjectRequestStatus, map[string]any{
		"request_id": request.ID,
		"item_id":    request.ItemID,
		"status":     request.Status,
	})
	if next == domain.RequestStatusApproved {
		uc.publish(ctx, events.SubjectItemStatus, map[string]any{
			"item_id": request.ItemID,
			"status":  domain.ItemStatusPending,
		})
	}

	uc.logger.Info().Str("request_id", requestID).Str("status", string(next)).Msg("request resolved")
	return request, nil
}

// CreateLogistics arranges fulfilment for an approved request. Either party
// may arrange it; the owning item moves to claimed in the same transaction.
func (uc *ExchangeUsecase) CreateLogistics(ctx context.Context, actorID string, in CreateLogisticsInput) (*domain.Logistics, error) {
	if !domain.ValidLogisticsType(in.Type) {
		return nil, domain.ValidationError("logisticsType must be pickup or delivery")
	}

	request, err := uc.requests.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, request.ItemID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actorID, domain.RelationParty,
		domain.Parties{Donor: item.DonorID, Requester: request.RequesterID},
		"not authorized to arrange logistics for this request"); err != nil {
		return nil, err
	}
	if request.Status != domain.RequestStatusApproved {
		return nil, domain.ConflictError("logistics can only be arranged for approved requests")
	}

	now := time.Now().UTC()
	logistics := &domain.Logistics{
		ID:            uuid.NewString(),
		RequestID:     request.ID,
		Type:          in.Type,
		Status:        domain.LogisticsStatusPending,
		ScheduledDate: in.ScheduledDate,
		Cost:          in.Cost,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.logistics.Create(ctx, logistics, request.ItemID); err != nil {
		return nil, err
	}

	uc.invalidateItem(ctx, request.ItemID)
	uc.publish(ctx, events.SubjectItemStatus, map[string]any{
		"item_id": request.ItemID,
		"status":  domain.ItemStatusClaimed,
	})
	uc.publish(ctx, events.SubjectLogisticsStatus, map[string]any{
		"logistics_id": logistics.ID,
		"request_id":   request.ID,
		"status":       logistics.Status,
	})

	uc.logger.Info().Str("logistics_id", logistics.ID).Str("request_id", request.ID).Msg("logistics arranged")
	return logistics, nil
}

// UpdateLogistics applies a partial update to an arrangement. Status changes
// run through the policy; marking the arrangement completed also marks the
// item delivered. Repeating a completed update is a no-op on both records,
// and a write racing a concurrent update loses with a conflict because the
// store only applies it while the status the caller read still holds.
func (uc *ExchangeUsecase) UpdateLogistics(ctx context.Context, actorID, logisticsID string, in domain.LogisticsUpdate) (*domain.Logistics, error) {
	logistics, err := uc.logistics.GetByID(ctx, logisticsID)
	if err != nil {
		return nil, err
	}
	request, err := uc.requests.GetByID(ctx, logistics.RequestID)
	if err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, request.ItemID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actorID, domain.RelationParty,
		domain.Parties{Donor: item.DonorID, Requester: request.RequesterID},
		"not authorized to update this logistics arrangement"); err != nil {
		return nil, err
	}

	prev := logistics.Status
	statusChanged := false
	if in.Status != nil {
		if err := uc.policy.CanTransition(logistics.Status, *in.Status); err != nil {
			return nil, err
		}
		statusChanged = logistics.Status != *in.Status
		logistics.Status = *in.Status
	}
	if in.ScheduledDate != nil {
		logistics.ScheduledDate = in.ScheduledDate
	}
	if in.TrackingNumber != nil {
		logistics.TrackingNumber = *in.TrackingNumber
	}
	if in.Notes != nil {
		logistics.Notes = *in.Notes
	}

	completed := logistics.Status == domain.LogisticsStatusCompleted
	if err := uc.logistics.Update(ctx, logistics, request.ItemID, prev, completed); err != nil {
		return nil, err
	}

	uc.invalidateItem(ctx, request.ItemID)
	if statusChanged {
		uc.publish(ctx, events.SubjectLogisticsStatus, map[string]any{
			"logistics_id": logistics.ID,
			"request_id":   request.ID,
			"status":       logistics.Status,
		})
		if completed {
			uc.publish(ctx, events.SubjectItemStatus, map[string]any{
				"item_id": request.ItemID,
				"status":  domain.ItemStatusDelivered,
			})
		}
	}

	return logistics, nil
}

func (uc *ExchangeUsecase) invalidateItem(ctx context.Context, itemID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, itemID); err != nil {
		uc.logger.Warn().Err(err).Str("item_id", itemID).Msg("item cache invalidation failed")
	}
}

func (uc *ExchangeUsecase) publish(ctx context.Context, subject string, payload any) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, payload); err != nil {
		uc.logger.Warn().Err(err).Str("subject", subject).Msg("event publish failed")
	}
}

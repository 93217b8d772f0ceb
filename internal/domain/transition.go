package domain

// ItemEvent is something that happens to a listing and may advance its
// status. Each event has exactly one legal source state, which keeps the item
// sequence forward only with no skips.
type ItemEvent string

const (
	// ItemEventApprove fires when the donor approves a request.
	ItemEventApprove ItemEvent = "approve"
	// ItemEventClaim fires when logistics are arranged for the approved request.
	ItemEventClaim ItemEvent = "claim"
	// ItemEventComplete fires when the logistics arrangement completes.
	ItemEventComplete ItemEvent = "complete"
)

var itemTransitions = map[ItemEvent]struct {
	from ItemStatus
	to   ItemStatus
}{
	ItemEventApprove:  {from: ItemStatusAvailable, to: ItemStatusPending},
	ItemEventClaim:    {from: ItemStatusPending, to: ItemStatusClaimed},
	ItemEventComplete: {from: ItemStatusClaimed, to: ItemStatusDelivered},
}

// NextItemStatus applies event to the current item status. Re-applying an
// event whose target state already holds returns the state unchanged, which
// keeps completion idempotent. Everything else is a conflict.
func NextItemStatus(current ItemStatus, event ItemEvent) (ItemStatus, error) {
	t, ok := itemTransitions[event]
	if !ok {
		return current, ValidationError("unknown item event")
	}
	if current == t.to {
		return current, nil
	}
	if current != t.from {
		return current, ConflictError("item is no longer " + string(t.from))
	}
	return t.to, nil
}

// NextRequestStatus validates a donor decision on a request. Only pending
// requests move, and only to approved or rejected.
func NextRequestStatus(current, next RequestStatus) error {
	if next != RequestStatusApproved && next != RequestStatusRejected {
		return ValidationError("status must be approved or rejected")
	}
	if current != RequestStatusPending {
		return ConflictError("request has already been resolved")
	}
	return nil
}

// LogisticsPolicy controls whether completed and cancelled arrangements may be
// reopened. Terminal states are the default; the permissive any-to-any mode
// stays available behind configuration.
type LogisticsPolicy struct {
	TerminalStates bool
}

// CanTransition validates a logistics status change under the policy.
// Repeating the current status is always allowed so that completion reports
// stay idempotent.
func (p LogisticsPolicy) CanTransition(current, next LogisticsStatus) error {
	if !ValidLogisticsStatus(next) {
		return ValidationError("unknown logistics status")
	}
	if current == next {
		return nil
	}
	if p.TerminalStates && (current == LogisticsStatusCompleted || current == LogisticsStatusCancelled) {
		return ConflictError("logistics arrangement is already " + string(current))
	}
	return nil
}

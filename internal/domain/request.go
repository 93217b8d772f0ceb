package domain

import "time"

// RequestStatus is the lifecycle state of a request. approved and rejected
// are terminal; only the item's donor moves a request out of pending.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// LogisticsType is how an exchange is fulfilled.
type LogisticsType string

const (
	LogisticsTypePickup   LogisticsType = "pickup"
	LogisticsTypeDelivery LogisticsType = "delivery"
)

// ValidLogisticsType reports whether t is a supported fulfilment type.
func ValidLogisticsType(t LogisticsType) bool {
	return t == LogisticsTypePickup || t == LogisticsTypeDelivery
}

// Request is a recipient's claim of interest in an item. A request is active
// while its status is pending or approved; a (item, requester) pair may hold
// at most one active request at a time.
type Request struct {
	ID            string
	ItemID        string
	RequesterID   string
	Message       string
	LogisticsType LogisticsType
	Status        RequestStatus
	RequestedAt   time.Time
}

// RequestDetail is a request joined with the listing and party names the
// dashboard views need.
type RequestDetail struct {
	Request
	ItemTitle     string
	ItemStatus    ItemStatus
	RequesterName string
	DonorName     string
}

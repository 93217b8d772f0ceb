package domain

import "time"

// LogisticsStatus tracks the fulfilment arrangement of an approved request.
type LogisticsStatus string

const (
	LogisticsStatusPending    LogisticsStatus = "pending"
	LogisticsStatusScheduled  LogisticsStatus = "scheduled"
	LogisticsStatusInProgress LogisticsStatus = "in_progress"
	LogisticsStatusCompleted  LogisticsStatus = "completed"
	LogisticsStatusCancelled  LogisticsStatus = "cancelled"
)

// ValidLogisticsStatus reports whether s is a known logistics status.
func ValidLogisticsStatus(s LogisticsStatus) bool {
	switch s {
	case LogisticsStatusPending, LogisticsStatusScheduled, LogisticsStatusInProgress,
		LogisticsStatusCompleted, LogisticsStatusCancelled:
		return true
	}
	return false
}

// Logistics is the pickup/delivery arrangement for an approved request. One
// arrangement exists per request.
type Logistics struct {
	ID             string
	RequestID      string
	Type           LogisticsType
	Status         LogisticsStatus
	ScheduledDate  *time.Time
	Cost           *float64
	TrackingNumber string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LogisticsUpdate carries the mutable subset of a logistics record. Nil
// fields are left untouched. Any other field arriving at the boundary rejects
// the whole update.
type LogisticsUpdate struct {
	Status         *LogisticsStatus
	ScheduledDate  *time.Time
	TrackingNumber *string
	Notes          *string
}

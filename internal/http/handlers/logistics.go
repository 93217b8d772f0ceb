package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sharecircle/internal/domain"
	"sharecircle/internal/usecase"
)

type createLogisticsRequest struct {
	RequestID     string     `json:"requestId"`
	Type          string     `json:"type"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	Cost          *float64   `json:"cost"`
	Notes         string     `json:"notes"`
}

type logisticsDTO struct {
	ID             string     `json:"id"`
	RequestID      string     `json:"requestId"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	ScheduledDate  *time.Time `json:"scheduledDate"`
	Cost           *float64   `json:"cost"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func toLogisticsDTO(l *domain.Logistics) logisticsDTO {
	return logisticsDTO{
		ID:             l.ID,
		RequestID:      l.RequestID,
		Type:           string(l.Type),
		Status:         string(l.Status),
		ScheduledDate:  l.ScheduledDate,
		Cost:           l.Cost,
		TrackingNumber: l.TrackingNumber,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// LogisticsCreate arranges fulfilment for an approved request.
func (a *App) LogisticsCreate(w http.ResponseWriter, r *http.Request) {
	var req createLogisticsRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	logistics, err := a.Exchange.CreateLogistics(r.Context(), a.currentUserID(r), usecase.CreateLogisticsInput{
		RequestID:     req.RequestID,
		Type:          domain.LogisticsType(req.Type),
		ScheduledDate: req.ScheduledDate,
		Cost:          req.Cost,
		Notes:         req.Notes,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, toLogisticsDTO(logistics))
}

// updatableLogisticsFields is the whitelist of keys a PATCH may carry. One
// unknown key rejects the whole update.
var updatableLogisticsFields = map[string]bool{
	"status":         true,
	"scheduledDate":  true,
	"trackingNumber": true,
	"notes":          true,
}

// LogisticsUpdate applies a partial update to an arrangement.
func (a *App) LogisticsUpdate(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		a.fail(w, domain.ValidationError("invalid json body"))
		return
	}
	for key := range raw {
		if !updatableLogisticsFields[key] {
			a.fail(w, domain.ValidationError("field cannot be updated: "+key))
			return
		}
	}

	var update domain.LogisticsUpdate
	if msg, ok := raw["status"]; ok {
		var s domain.LogisticsStatus
		if err := json.Unmarshal(msg, &s); err != nil {
			a.fail(w, domain.ValidationError("invalid status"))
			return
		}
		update.Status = &s
	}
	if msg, ok := raw["scheduledDate"]; ok {
		var t time.Time
		if err := json.Unmarshal(msg, &t); err != nil {
			a.fail(w, domain.ValidationError("invalid scheduledDate"))
			return
		}
		update.ScheduledDate = &t
	}
	if msg, ok := raw["trackingNumber"]; ok {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			a.fail(w, domain.ValidationError("invalid trackingNumber"))
			return
		}
		update.TrackingNumber = &s
	}
	if msg, ok := raw["notes"]; ok {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			a.fail(w, domain.ValidationError("invalid notes"))
			return
		}
		update.Notes = &s
	}

	logistics, err := a.Exchange.UpdateLogistics(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), update)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toLogisticsDTO(logistics))
}

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sharecircle/internal/domain"
)

type createRequestRequest struct {
	ItemID        string `json:"itemId"`
	Message       string `json:"message"`
	LogisticsType string `json:"logisticsType"`
}

type updateRequestRequest struct {
	Status string `json:"status"`
}

type requestDTO struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	RequesterID   string    `json:"requesterId"`
	Message       string    `json:"message,omitempty"`
	LogisticsType string    `json:"logisticsType"`
	Status        string    `json:"status"`
	RequestedAt   time.Time `json:"requestedAt"`
}

type requestDetailDTO struct {
	requestDTO
	ItemTitle     string `json:"itemTitle"`
	ItemStatus    string `json:"itemStatus"`
	RequesterName string `json:"requesterName"`
	DonorName     string `json:"donorName"`
}

func toRequestDTO(req *domain.Request) requestDTO {
	return requestDTO{
		ID:            req.ID,
		ItemID:        req.ItemID,
		RequesterID:   req.RequesterID,
		Message:       req.Message,
		LogisticsType: string(req.LogisticsType),
		Status:        string(req.Status),
		RequestedAt:   req.RequestedAt,
	}
}

func toRequestDetailDTO(d domain.RequestDetail) requestDetailDTO {
	return requestDetailDTO{
		requestDTO:    toRequestDTO(&d.Request),
		ItemTitle:     d.ItemTitle,
		ItemStatus:    string(d.ItemStatus),
		RequesterName: d.RequesterName,
		DonorName:     d.DonorName,
	}
}

// RequestsCreate registers interest in an available item.
func (a *App) RequestsCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	request, err := a.Exchange.CreateRequest(r.Context(), a.currentUserID(r),
		req.ItemID, req.Message, domain.LogisticsType(req.LogisticsType))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, toRequestDTO(request))
}

// RequestsList returns the caller's requests. ?type=received lists requests
// on the caller's items; anything else lists requests the caller made.
func (a *App) RequestsList(w http.ResponseWriter, r *http.Request) {
	details, err := a.Exchange.ListRequests(r.Context(), a.currentUserID(r), r.URL.Query().Get("type"))
	if err != nil {
		a.fail(w, err)
		return
	}

	dtos := make([]requestDetailDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, toRequestDetailDTO(d))
	}
	a.json(w, http.StatusOK, map[string]any{"requests": dtos})
}

// RequestsUpdate is the donor's decision: status approved or rejected.
func (a *App) RequestsUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequestRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	request, err := a.Exchange.SetRequestStatus(r.Context(), a.currentUserID(r),
		chi.URLParam(r, "id"), domain.RequestStatus(req.Status))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toRequestDTO(request))
}

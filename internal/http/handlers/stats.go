package handlers

import "net/http"

type statsResponse struct {
	ItemsShared     int     `json:"itemsShared"`
	WasteDivertedKg float64 `json:"wasteDivertedKg"`
	MembersHelped   int     `json:"membersHelped"`
}

// AdminStats returns community aggregates computed straight from the entity
// tables.
func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Stats.Summary(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, statsResponse{
		ItemsShared:     stats.ItemsShared,
		WasteDivertedKg: stats.WasteDivertedKg,
		MembersHelped:   stats.MembersHelped,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sharecircle/internal/domain"
	"sharecircle/internal/middleware"
	"sharecircle/internal/usecase"
)

// App bundles the services the HTTP handlers depend on.
type App struct {
	Accounts  *usecase.AccountUsecase
	Catalog   *usecase.CatalogUsecase
	Exchange  *usecase.ExchangeUsecase
	Stats     domain.StatsRepository
	Logger    zerolog.Logger
	JWTSecret string
	TokenTTL  time.Duration
	UploadDir string
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (a *App) json(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.Logger.Error().Err(err).Msg("write response")
	}
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// fail maps a domain error to its HTTP status. The reason carried by the
// error is surfaced verbatim; anything unrecognized is a 500 with a generic
// message.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ValidationError("invalid json body")
	}
	return nil
}

package handlers

import (
	"net/http"
	"time"

	"sharecircle/internal/domain"
	"sharecircle/internal/middleware"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Location      string    `json:"location,omitempty"`
	JoinedAt      time.Time `json:"joinedAt"`
	DonationsMade int       `json:"donationsMade"`
	RequestsMade  int       `json:"requestsMade"`
	Rating        float64   `json:"rating"`
}

type authResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		Location:      u.Location,
		JoinedAt:      u.JoinedAt,
		DonationsMade: u.DonationsMade,
		RequestsMade:  u.RequestsMade,
		Rating:        u.Rating,
	}
}

// Register creates an account and signs the caller in.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	user, err := a.Accounts.Register(r.Context(), req.Name, req.Email, req.Password, domain.UserRole(req.Role))
	if err != nil {
		a.fail(w, err)
		return
	}

	token, err := middleware.SignToken(a.JWTSecret, user.ID, a.TokenTTL)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, authResponse{User: toUserDTO(user), Token: token})
}

// Login exchanges credentials for a session token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	user, err := a.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, err)
		return
	}

	token, err := middleware.SignToken(a.JWTSecret, user.ID, a.TokenTTL)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, authResponse{User: toUserDTO(user), Token: token})
}

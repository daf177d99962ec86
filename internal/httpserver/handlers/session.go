package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkveo/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type registerResponse struct {
	User domain.User `json:"user"`
}

func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Core.Session())
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decode(r, &req); err != nil {
			writeError(w, d, err, session.MsgLoginFailed)
			return
		}

		s, err := d.Core.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, d, err, session.MsgLoginFailed)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decode(r, &req); err != nil {
			writeError(w, d, err, session.MsgRegistrationFailed)
			return
		}

		u, err := d.Core.Register(r.Context(), req.Email, req.Password, req.Confirm)
		if err != nil {
			writeError(w, d, err, session.MsgRegistrationFailed)
			return
		}
		writeJSON(w, http.StatusCreated, registerResponse{User: u})
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Core.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

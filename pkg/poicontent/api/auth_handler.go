package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// RegisterUser creates a new account.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req poicontent.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	user, err := s.service.RegisterUser(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// Login authenticates the Basic credentials. Administrators get a marker
// string, everyone else a bare true.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	identity, err := s.service.Login(r.Context(), credentials(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if identity.Admin {
		render.JSON(w, r, "hi admin")
		return
	}
	render.JSON(w, r, true)
}

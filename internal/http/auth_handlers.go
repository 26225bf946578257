package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeInput(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	_, result, err := s.Services.Accounts.Register(r.Context(), req, CurrentAdmin(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, result)
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeInput(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	_, result, err := s.Services.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, result)
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, services.Public(CurrentAdmin(r)))
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if session, ok := CurrentSession(r); ok {
		if err := s.Services.Accounts.Logout(r.Context(), session); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}
	WriteMessage(w, http.StatusOK, "Logged out successfully")
}

package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

func (s *Server) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := s.Services.Accounts.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, admins)
}

func (s *Server) GetAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := s.Services.Accounts.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, admin)
}

func (s *Server) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeInput(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	admin, err := s.Services.Accounts.Create(r.Context(), req, CurrentAdmin(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, admin)
}

func (s *Server) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var patch services.AdminPatch
	if err := decodeInput(w, r, &patch); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	admin, err := s.Services.Accounts.Update(r.Context(), CurrentAdmin(r), pathID(r), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, admin)
}

func (s *Server) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Accounts.Delete(r.Context(), CurrentAdmin(r), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Admin deleted successfully")
}

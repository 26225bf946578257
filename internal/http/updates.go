package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) ListUpdates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	updates, err := s.Services.Updates.List(r.Context(), services.UpdateFilter{
		Active:   q.Get("active"),
		Featured: q.Get("featured"),
		Category: q.Get("category"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, updates)
}

func (s *Server) GetUpdate(w http.ResponseWriter, r *http.Request) {
	update, err := s.Services.Updates.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, update)
}

func (s *Server) GetUpdateBySlug(w http.ResponseWriter, r *http.Request) {
	update, err := s.Services.Updates.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, update)
}

func (s *Server) CreateUpdate(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.UpdateInput](s, w, r, "coverImage")
	if !ok {
		return
	}
	update, err := s.Services.Updates.Create(r.Context(), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, update)
}

func (s *Server) UpdateUpdate(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.UpdateInput](s, w, r, "coverImage")
	if !ok {
		return
	}
	update, err := s.Services.Updates.Update(r.Context(), pathID(r), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, update)
}

func (s *Server) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Updates.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Update deleted successfully")
}

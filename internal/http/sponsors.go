package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) ListSponsors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sponsors, err := s.Services.Sponsors.List(r.Context(), services.SponsorFilter{
		Tier:   q.Get("tier"),
		Active: q.Get("active"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, sponsors)
}

func (s *Server) SponsorsByTier(w http.ResponseWriter, r *http.Request) {
	sponsors, err := s.Services.Sponsors.ByTier(r.Context(), chi.URLParam(r, "tier"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, sponsors)
}

func (s *Server) GetSponsor(w http.ResponseWriter, r *http.Request) {
	sponsor, err := s.Services.Sponsors.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, sponsor)
}

func (s *Server) CreateSponsor(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.SponsorInput](s, w, r, "logo")
	if !ok {
		return
	}
	sponsor, err := s.Services.Sponsors.Create(r.Context(), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, sponsor)
}

func (s *Server) UpdateSponsor(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.SponsorInput](s, w, r, "logo")
	if !ok {
		return
	}
	sponsor, err := s.Services.Sponsors.Update(r.Context(), pathID(r), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, sponsor)
}

func (s *Server) DeleteSponsor(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Sponsors.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Sponsor deleted successfully")
}

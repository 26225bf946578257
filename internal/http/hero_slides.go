package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

func (s *Server) ListHeroSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := s.Services.HeroSlides.List(r.Context(), r.URL.Query().Get("active"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, slides)
}

func (s *Server) GetHeroSlide(w http.ResponseWriter, r *http.Request) {
	slide, err := s.Services.HeroSlides.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, slide)
}

func (s *Server) CreateHeroSlide(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.HeroSlideInput](s, w, r, "image")
	if !ok {
		return
	}
	slide, err := s.Services.HeroSlides.Create(r.Context(), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, slide)
}

func (s *Server) UpdateHeroSlide(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.HeroSlideInput](s, w, r, "image")
	if !ok {
		return
	}
	slide, err := s.Services.HeroSlides.Update(r.Context(), pathID(r), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, slide)
}

func (s *Server) DeleteHeroSlide(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.HeroSlides.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Hero slide deleted successfully")
}

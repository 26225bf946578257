package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

func (s *Server) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := s.Services.Speakers.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, speakers)
}

func (s *Server) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	speaker, err := s.Services.Speakers.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, speaker)
}

func (s *Server) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.SpeakerInput](s, w, r, "photo")
	if !ok {
		return
	}
	speaker, err := s.Services.Speakers.Create(r.Context(), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, speaker)
}

func (s *Server) UpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	file, in, ok := bindUpload[services.SpeakerInput](s, w, r, "photo")
	if !ok {
		return
	}
	speaker, err := s.Services.Speakers.Update(r.Context(), pathID(r), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, speaker)
}

func (s *Server) DeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Speakers.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Speaker deleted successfully")
}

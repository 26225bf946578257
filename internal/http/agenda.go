package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

func (s *Server) ListAgenda(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.Services.Agenda.List(r.Context(), services.AgendaFilter{
		Status: q.Get("status"),
		Date:   q.Get("date"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, items)
}

func (s *Server) GetAgendaItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.Services.Agenda.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, item)
}

func (s *Server) CreateAgendaItem(w http.ResponseWriter, r *http.Request) {
	var in services.AgendaInput
	if err := decodeInput(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.Services.Agenda.Create(r.Context(), CurrentAdmin(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, item)
}

func (s *Server) UpdateAgendaItem(w http.ResponseWriter, r *http.Request) {
	var in services.AgendaInput
	if err := decodeInput(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.Services.Agenda.Update(r.Context(), pathID(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, item)
}

func (s *Server) DeleteAgendaItem(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Agenda.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Agenda item deleted successfully")
}

package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

func (s *Server) RegisterParticipant(w http.ResponseWriter, r *http.Request) {
	var in services.ParticipantInput
	if err := decodeInput(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	participant, err := s.Services.Participants.Register(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, participant)
}

func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	participants, err := s.Services.Participants.List(r.Context(), services.ParticipantFilter{
		Status:          q.Get("status"),
		ParticipantType: q.Get("participantType"),
		CheckedIn:       q.Get("checkedIn"),
		Search:          q.Get("search"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, participants)
}

func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) {
	participant, err := s.Services.Participants.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, participant)
}

func (s *Server) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	var in services.ParticipantInput
	if err := decodeInput(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	participant, err := s.Services.Participants.Update(r.Context(), pathID(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, participant)
}

func (s *Server) CheckInParticipant(w http.ResponseWriter, r *http.Request) {
	participant, err := s.Services.Participants.CheckIn(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, participant)
}

func (s *Server) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Participants.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Participant deleted successfully")
}

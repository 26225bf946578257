package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

type inquiryStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var in services.InquiryInput
	if err := decodeInput(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	inquiry, err := s.Services.Inquiries.Submit(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "Your message has been sent successfully!",
		Data:    inquiry,
	})
}

func (s *Server) ListInquiries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inquiries, err := s.Services.Inquiries.List(r.Context(), services.InquiryFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, inquiries)
}

// GetInquiry marks a pending inquiry as read.
func (s *Server) GetInquiry(w http.ResponseWriter, r *http.Request) {
	inquiry, err := s.Services.Inquiries.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, inquiry)
}

func (s *Server) UpdateInquiry(w http.ResponseWriter, r *http.Request) {
	var req inquiryStatusRequest
	if err := decodeInput(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	inquiry, err := s.Services.Inquiries.SetStatus(r.Context(), pathID(r), req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, inquiry)
}

func (s *Server) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Inquiries.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Inquiry deleted successfully")
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"filmart-backend-go/internal/services"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteList adds the item count next to the data.
func WriteList[T any](w http.ResponseWriter, items []T) {
	count := len(items)
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: items})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: true, Message: message})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// writeServiceError renders err through the envelope. Errors outside the
// service taxonomy become 500; the cause is only exposed in development.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if serr, ok := services.AsServiceError(err); ok {
		body := Envelope{Success: false, Message: serr.Message}
		if len(serr.Fields) > 0 {
			body.Errors = serr.Fields
		}
		WriteJSON(w, serr.Status, body)
		return
	}
	s.Logger.ErrorContext(r.Context(), "request failed", "requestId", RequestID(r), "method", r.Method, "path", r.URL.Path, "error", err)
	body := Envelope{Success: false, Message: "Server Error"}
	if !s.Config.IsProduction() {
		body.Message = err.Error()
		body.Stack = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, body)
}

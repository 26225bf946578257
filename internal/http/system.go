package httpapi

import (
	"context"
	"net/http"
	"time"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

type healthResponse struct {
	Status           string               `json:"status"`
	Message          string               `json:"message"`
	Timestamp        time.Time            `json:"timestamp"`
	Uptime           string               `json:"uptime"`
	Database         databaseHealth       `json:"database"`
	EventSubscribers int                  `json:"eventSubscribers"`
	System           services.SystemStats `json:"system"`
}

type databaseHealth struct {
	Backend string `json:"backend"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := healthResponse{
		Status:    "OK",
		Message:   "SIAMESE FILMART API is running",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Database:  databaseHealth{Backend: s.Store.Name(), OK: true},
		System:    services.CaptureSystemStats(s.Config.MediaStoragePath),
	}
	if s.Services.Events != nil {
		body.EventSubscribers = s.Services.Events.Subscribers()
	}
	status := http.StatusOK
	if err := s.Store.Ping(ctx); err != nil {
		s.Logger.WarnContext(r.Context(), "database ping failed", "error", err)
		body.Status = "DEGRADED"
		body.Database.OK = false
		if !s.Config.IsProduction() {
			body.Database.Error = err.Error()
		}
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, body)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsSocket streams inquiry and participant notifications to signed-in
// admins. Browsers cannot set headers on a websocket handshake, so the
// session token travels in the query string.
func (s *Server) EventsSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r)
	}
	admin, _, err := s.Services.Accounts.Authenticate(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Services.Events.Add(conn)
	s.Logger.InfoContext(r.Context(), "event feed connected", "adminId", adminID(admin))
	defer func() {
		s.Services.Events.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func adminID(admin *models.Admin) string {
	if admin == nil {
		return ""
	}
	return admin.ID
}

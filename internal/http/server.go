package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"filmart-backend-go/internal/config"
	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/services"
	"filmart-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Server struct {
	Store    store.Backend
	Services *services.Services
	Config   config.Config
	Logger   *slog.Logger

	started time.Time
}

func NewServer(backend store.Backend, svc *services.Services, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Store:    backend,
		Services: svc,
		Config:   cfg,
		Logger:   logger,
		started:  time.Now(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(RequestLogger(s.Logger))
	r.Use(s.Recoverer)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)
		api.Get("/events/ws", s.EventsSocket)

		api.Route("/auth", func(auth chi.Router) {
			auth.With(s.OptionalAuth).Post("/register", s.Register)
			auth.Post("/login", s.Login)
			auth.With(s.WithAuth).Get("/me", s.Me)
			auth.With(s.WithAuth).Post("/logout", s.Logout)
		})

		api.Route("/admins", func(admins chi.Router) {
			admins.Use(s.WithAuth)
			admins.Get("/", s.ListAdmins)
			admins.With(RequireRole(models.RoleSuperAdmin)).Post("/", s.CreateAdmin)
			admins.Get("/{id}", s.GetAdmin)
			admins.Put("/{id}", s.UpdateAdmin)
			admins.With(RequireRole(models.RoleSuperAdmin)).Delete("/{id}", s.DeleteAdmin)
		})

		api.Route("/agenda", func(agenda chi.Router) {
			agenda.Get("/", s.ListAgenda)
			agenda.Get("/{id}", s.GetAgendaItem)
			agenda.With(s.WithAuth).Post("/", s.CreateAgendaItem)
			agenda.With(s.WithAuth).Put("/{id}", s.UpdateAgendaItem)
			agenda.With(s.WithAuth).Delete("/{id}", s.DeleteAgendaItem)
		})

		api.Route("/gallery", func(gallery chi.Router) {
			gallery.Get("/", s.ListGallery)
			gallery.Get("/stats", s.GalleryStats)
			gallery.Get("/{id}", s.GetGalleryImage)
			gallery.With(s.WithAuth).Post("/", s.UploadGalleryImages)
			gallery.With(s.WithAuth).Put("/{id}", s.UpdateGalleryImage)
			gallery.With(s.WithAuth).Delete("/{id}", s.DeleteGalleryImage)
		})

		api.Route("/hero-slides", func(slides chi.Router) {
			slides.Get("/", s.ListHeroSlides)
			slides.Get("/{id}", s.GetHeroSlide)
			slides.With(s.WithAuth).Post("/", s.CreateHeroSlide)
			slides.With(s.WithAuth).Put("/{id}", s.UpdateHeroSlide)
			slides.With(s.WithAuth).Delete("/{id}", s.DeleteHeroSlide)
		})

		api.Route("/sponsors", func(sponsors chi.Router) {
			sponsors.Get("/", s.ListSponsors)
			sponsors.Get("/tier/{tier}", s.SponsorsByTier)
			sponsors.Get("/{id}", s.GetSponsor)
			sponsors.With(s.WithAuth).Post("/", s.CreateSponsor)
			sponsors.With(s.WithAuth).Put("/{id}", s.UpdateSponsor)
			sponsors.With(s.WithAuth).Delete("/{id}", s.DeleteSponsor)
		})

		api.Route("/updates", func(updates chi.Router) {
			updates.Get("/", s.ListUpdates)
			updates.Get("/slug/{slug}", s.GetUpdateBySlug)
			updates.Get("/{id}", s.GetUpdate)
			updates.With(s.WithAuth).Post("/", s.CreateUpdate)
			updates.With(s.WithAuth).Put("/{id}", s.UpdateUpdate)
			updates.With(s.WithAuth).Delete("/{id}", s.DeleteUpdate)
		})

		api.Route("/inquiries", func(inquiries chi.Router) {
			inquiries.Post("/", s.SubmitInquiry)
			inquiries.With(s.WithAuth).Get("/", s.ListInquiries)
			inquiries.With(s.WithAuth).Get("/{id}", s.GetInquiry)
			inquiries.With(s.WithAuth).Put("/{id}", s.UpdateInquiry)
			inquiries.With(s.WithAuth).Delete("/{id}", s.DeleteInquiry)
		})

		api.Route("/speakers", func(speakers chi.Router) {
			speakers.Get("/", s.ListSpeakers)
			speakers.Get("/{id}", s.GetSpeaker)
			speakers.With(s.WithAuth).Post("/", s.CreateSpeaker)
			speakers.With(s.WithAuth).Put("/{id}", s.UpdateSpeaker)
			speakers.With(s.WithAuth).Delete("/{id}", s.DeleteSpeaker)
		})

		api.Route("/participants", func(participants chi.Router) {
			participants.Post("/", s.RegisterParticipant)
			participants.Group(func(private chi.Router) {
				private.Use(s.WithAuth)
				private.Get("/", s.ListParticipants)
				private.Get("/{id}", s.GetParticipant)
				private.Put("/{id}", s.UpdateParticipant)
				private.Post("/{id}/check-in", s.CheckInParticipant)
				private.Delete("/{id}", s.DeleteParticipant)
			})
		})
	})

	if s.Config.UseLocalMedia() {
		prefix := "/" + strings.Trim(s.Config.MediaPublicURL, "/")
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(s.Config.MediaStoragePath)))
		r.Handle(prefix+"/*", files)
	}
	return r
}

package services

import (
	"log/slog"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

// Services bundles every entity service over one store backend.
type Services struct {
	Accounts     *Accounts
	Agenda       *Agenda
	Gallery      *Gallery
	HeroSlides   *HeroSlides
	Sponsors     *Sponsors
	Updates      *Updates
	Inquiries    *Inquiries
	Speakers     *Speakers
	Participants *Participants
	Media        *MediaManager
	Events       *EventHub
}

type Deps struct {
	Backend store.Backend
	Media   *MediaManager
	Tokens  TokenService
	Revoker Revoker
	Events  *EventHub
	Logger  *slog.Logger
}

func New(deps Deps) *Services {
	b := deps.Backend
	accounts := NewAccounts(store.Bind[models.Admin](b, store.Admins), deps.Tokens, deps.Revoker, deps.Logger)
	return &Services{
		Accounts:     accounts,
		Agenda:       NewAgenda(store.Bind[models.AgendaItem](b, store.AgendaItems), accounts),
		Gallery:      NewGallery(store.Bind[models.GalleryImage](b, store.GalleryImages), deps.Media, accounts),
		HeroSlides:   NewHeroSlides(store.Bind[models.HeroSlide](b, store.HeroSlides), deps.Media),
		Sponsors:     NewSponsors(store.Bind[models.Sponsor](b, store.Sponsors), deps.Media),
		Updates:      NewUpdates(store.Bind[models.Update](b, store.Updates), deps.Media),
		Inquiries:    NewInquiries(store.Bind[models.Inquiry](b, store.Inquiries), deps.Events),
		Speakers:     NewSpeakers(store.Bind[models.Speaker](b, store.Speakers), deps.Media),
		Participants: NewParticipants(store.Bind[models.Participant](b, store.Participants), deps.Events),
		Media:        deps.Media,
		Events:       deps.Events,
	}
}

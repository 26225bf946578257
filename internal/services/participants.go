package services

import (
	"context"
	"strings"
	"time"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

type ParticipantInput struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Organization    *string `json:"organization"`
	Country         *string `json:"country"`
	ParticipantType *string `json:"participantType"`
	Status          *string `json:"status"`
}

func (in ParticipantInput) apply(p *models.Participant) {
	if in.FirstName != nil {
		p.FirstName = PlainText(*in.FirstName)
	}
	if in.LastName != nil {
		p.LastName = PlainText(*in.LastName)
	}
	if in.Email != nil {
		p.Email = normalizeEmail(*in.Email)
	}
	setString(&p.Phone, in.Phone)
	if in.Organization != nil {
		p.Organization = PlainText(*in.Organization)
	}
	setString(&p.Country, in.Country)
	setString(&p.ParticipantType, in.ParticipantType)
	setString(&p.Status, in.Status)
}

type ParticipantFilter struct {
	Status          string
	ParticipantType string
	CheckedIn       string
	Search          string
}

type Participants struct {
	participants Resource[models.Participant]
	events       *EventHub
}

func NewParticipants(participants *store.Collection[models.Participant], events *EventHub) *Participants {
	return &Participants{
		participants: Resource[models.Participant]{
			Label:    "Participant",
			NotFound: "Participant not found",
			Store:    participants,
			Normalize: func(p *models.Participant) {
				if p.ParticipantType == "" {
					p.ParticipantType = "attendee"
				}
				if p.Status == "" {
					p.Status = "registered"
				}
			},
		},
		events: events,
	}
}

// Register is the public sign-up. Status and check-in are not client
// controlled here.
func (s *Participants) Register(ctx context.Context, in ParticipantInput) (*models.Participant, error) {
	in.Status = nil
	p := &models.Participant{RegistrationDate: time.Now().UTC().Truncate(time.Millisecond)}
	in.apply(p)
	if err := s.participants.Create(ctx, p, nil); err != nil {
		return nil, err
	}
	s.events.Publish(EventParticipantRegistered, map[string]any{
		"_id":             p.ID,
		"name":            strings.TrimSpace(p.FirstName + " " + p.LastName),
		"email":           p.Email,
		"participantType": p.ParticipantType,
	})
	return p, nil
}

func (s *Participants) List(ctx context.Context, f ParticipantFilter) ([]models.Participant, error) {
	q := store.Query{}.
		And(exactCond("status", f.Status)...).
		And(exactCond("participantType", f.ParticipantType)...).
		And(flagCond("checkedIn", f.CheckedIn)...).
		Or(searchConds(f.Search, "firstName", "lastName", "email", "organization")...).
		OrderBy(store.Desc("registrationDate"))
	return s.participants.List(ctx, q)
}

func (s *Participants) Get(ctx context.Context, id string) (*models.Participant, error) {
	return s.participants.Get(ctx, id)
}

func (s *Participants) Update(ctx context.Context, id string, in ParticipantInput) (*models.Participant, error) {
	return s.participants.Update(ctx, id, func(p *models.Participant) error {
		in.apply(p)
		return nil
	}, nil)
}

// CheckIn is idempotent: checkedInAt keeps the first check-in time.
func (s *Participants) CheckIn(ctx context.Context, id string) (*models.Participant, error) {
	return s.participants.Mutate(ctx, id, func(p *models.Participant) bool {
		if p.CheckedIn && p.CheckedInAt != nil {
			return false
		}
		p.CheckedIn = true
		if p.CheckedInAt == nil {
			now := time.Now().UTC().Truncate(time.Millisecond)
			p.CheckedInAt = &now
		}
		return true
	})
}

func (s *Participants) Delete(ctx context.Context, id string) error {
	return s.participants.Delete(ctx, id)
}

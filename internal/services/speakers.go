package services

import (
	"bytes"
	"context"
	"encoding/json"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

// SocialInput accepts an object or, from form posts, its JSON text.
type SocialInput struct {
	LinkedIn *string `json:"linkedin"`
	Twitter  *string `json:"twitter"`
	Facebook *string `json:"facebook"`
	Website  *string `json:"website"`
}

func (s *SocialInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		raw := unquote(data)
		if raw == "" {
			return nil
		}
		data = []byte(raw)
	}
	type plain SocialInput
	var value plain
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = SocialInput(value)
	return nil
}

type SpeakerInput struct {
	Name         *string      `json:"name"`
	Email        *string      `json:"email"`
	Phone        *string      `json:"phone"`
	Organization *string      `json:"organization"`
	Position     *string      `json:"position"`
	Bio          *string      `json:"bio"`
	Expertise    *Tags        `json:"expertise"`
	SocialMedia  *SocialInput `json:"socialMedia"`
	Status       *string      `json:"status"`
}

func (in SpeakerInput) apply(speaker *models.Speaker) {
	setString(&speaker.Name, in.Name)
	if in.Email != nil {
		speaker.Email = normalizeEmail(*in.Email)
	}
	setString(&speaker.Phone, in.Phone)
	setString(&speaker.Organization, in.Organization)
	setString(&speaker.Position, in.Position)
	if in.Bio != nil {
		speaker.Bio = PlainText(*in.Bio)
	}
	setTags(&speaker.Expertise, in.Expertise)
	if in.SocialMedia != nil {
		setString(&speaker.SocialMedia.LinkedIn, in.SocialMedia.LinkedIn)
		setString(&speaker.SocialMedia.Twitter, in.SocialMedia.Twitter)
		setString(&speaker.SocialMedia.Facebook, in.SocialMedia.Facebook)
		setString(&speaker.SocialMedia.Website, in.SocialMedia.Website)
	}
	setString(&speaker.Status, in.Status)
}

type Speakers struct {
	speakers Resource[models.Speaker]
}

// NewSpeakers wires speakers with an optional photo.
func NewSpeakers(speakers *store.Collection[models.Speaker], media *MediaManager) *Speakers {
	return &Speakers{speakers: Resource[models.Speaker]{
		Label:    "Speaker",
		NotFound: "Speaker not found",
		Store:    speakers,
		Media:    media,
		Profile:  SpeakerPhotoProfile,
		Asset: func(speaker *models.Speaker) (*string, *string) {
			return &speaker.Photo, &speaker.AssetID
		},
		Normalize: func(speaker *models.Speaker) {
			if speaker.Status == "" {
				speaker.Status = "pending"
			}
			if speaker.Expertise == nil {
				speaker.Expertise = []string{}
			}
		},
	}}
}

func (s *Speakers) List(ctx context.Context, status string) ([]models.Speaker, error) {
	q := store.Query{}.And(exactCond("status", status)...).OrderBy(store.Asc("name"))
	return s.speakers.List(ctx, q)
}

func (s *Speakers) Get(ctx context.Context, id string) (*models.Speaker, error) {
	return s.speakers.Get(ctx, id)
}

func (s *Speakers) Create(ctx context.Context, in SpeakerInput, file *File) (*models.Speaker, error) {
	speaker := &models.Speaker{}
	in.apply(speaker)
	if err := s.speakers.Create(ctx, speaker, file); err != nil {
		return nil, err
	}
	return speaker, nil
}

func (s *Speakers) Update(ctx context.Context, id string, in SpeakerInput, file *File) (*models.Speaker, error) {
	return s.speakers.Update(ctx, id, func(speaker *models.Speaker) error {
		in.apply(speaker)
		return nil
	}, file)
}

func (s *Speakers) Delete(ctx context.Context, id string) error {
	return s.speakers.Delete(ctx, id)
}

package services

import (
	"context"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

type HeroSlideInput struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	ButtonText  *string `json:"buttonText"`
	ButtonLink  *string `json:"buttonLink"`
	Order       *Int    `json:"order"`
	Active      *Bool   `json:"active"`
}

func (in HeroSlideInput) apply(slide *models.HeroSlide) {
	setString(&slide.Title, in.Title)
	setString(&slide.Subtitle, in.Subtitle)
	setString(&slide.Description, in.Description)
	setString(&slide.ButtonText, in.ButtonText)
	setString(&slide.ButtonLink, in.ButtonLink)
	setInt(&slide.Order, in.Order)
	setBool(&slide.Active, in.Active)
}

type HeroSlides struct {
	slides Resource[models.HeroSlide]
}

func NewHeroSlides(slides *store.Collection[models.HeroSlide], media *MediaManager) *HeroSlides {
	return &HeroSlides{slides: Resource[models.HeroSlide]{
		Label:    "Hero slide",
		NotFound: "Hero slide not found",
		Store:    slides,
		Media:    media,
		Profile:  HeroSlideProfile,
		Asset: func(slide *models.HeroSlide) (*string, *string) {
			return &slide.ImageURL, &slide.AssetID
		},
		RequireFile: "Please upload an image",
		Normalize: func(slide *models.HeroSlide) {
			if slide.ButtonText == "" {
				slide.ButtonText = "Learn More"
			}
		},
	}}
}

func (h *HeroSlides) List(ctx context.Context, active string) ([]models.HeroSlide, error) {
	q := store.Query{}.And(flagCond("active", active)...).OrderBy(store.Asc("order"))
	return h.slides.List(ctx, q)
}

func (h *HeroSlides) Get(ctx context.Context, id string) (*models.HeroSlide, error) {
	return h.slides.Get(ctx, id)
}

func (h *HeroSlides) Create(ctx context.Context, in HeroSlideInput, file *File) (*models.HeroSlide, error) {
	slide := &models.HeroSlide{Active: true}
	in.apply(slide)
	if err := h.slides.Create(ctx, slide, file); err != nil {
		return nil, err
	}
	return slide, nil
}

func (h *HeroSlides) Update(ctx context.Context, id string, in HeroSlideInput, file *File) (*models.HeroSlide, error) {
	return h.slides.Update(ctx, id, func(slide *models.HeroSlide) error {
		in.apply(slide)
		return nil
	}, file)
}

func (h *HeroSlides) Delete(ctx context.Context, id string) error {
	return h.slides.Delete(ctx, id)
}

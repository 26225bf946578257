package services

import (
	"context"
	"sort"
	"strings"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

// SponsorTiers in display order.
var SponsorTiers = []string{"platinum", "gold", "silver", "bronze", "partner"}

func tierRank(tier string) int {
	for i, t := range SponsorTiers {
		if t == tier {
			return i
		}
	}
	return len(SponsorTiers)
}

type SponsorInput struct {
	Name        *string `json:"name"`
	Website     *string `json:"website"`
	Tier        *string `json:"tier"`
	Order       *Int    `json:"order"`
	Active      *Bool   `json:"active"`
	Description *string `json:"description"`
}

func (in SponsorInput) apply(sponsor *models.Sponsor) {
	setString(&sponsor.Name, in.Name)
	setString(&sponsor.Website, in.Website)
	if in.Tier != nil {
		sponsor.Tier = strings.ToLower(strings.TrimSpace(*in.Tier))
	}
	setInt(&sponsor.Order, in.Order)
	setBool(&sponsor.Active, in.Active)
	setString(&sponsor.Description, in.Description)
}

type SponsorFilter struct {
	Tier   string
	Active string
}

type Sponsors struct {
	sponsors Resource[models.Sponsor]
}

func NewSponsors(sponsors *store.Collection[models.Sponsor], media *MediaManager) *Sponsors {
	return &Sponsors{sponsors: Resource[models.Sponsor]{
		Label:    "Sponsor",
		NotFound: "Sponsor not found",
		Store:    sponsors,
		Media:    media,
		Profile:  SponsorLogoProfile,
		Asset: func(sponsor *models.Sponsor) (*string, *string) {
			return &sponsor.LogoURL, &sponsor.AssetID
		},
		RequireFile: "Please upload a logo",
		Normalize: func(sponsor *models.Sponsor) {
			if sponsor.Tier == "" {
				sponsor.Tier = "partner"
			}
		},
	}}
}

// List sorts by tier rank, then order. Tier names do not sort
// alphabetically, so the ordering is applied after loading.
func (s *Sponsors) List(ctx context.Context, f SponsorFilter) ([]models.Sponsor, error) {
	q := store.Query{}.
		And(exactCond("tier", strings.ToLower(f.Tier))...).
		And(flagCond("active", f.Active)...).
		OrderBy(store.Asc("order"))
	sponsors, err := s.sponsors.List(ctx, q)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sponsors, func(i, j int) bool {
		return tierRank(sponsors[i].Tier) < tierRank(sponsors[j].Tier)
	})
	return sponsors, nil
}

// ByTier lists the active sponsors of one tier.
func (s *Sponsors) ByTier(ctx context.Context, tier string) ([]models.Sponsor, error) {
	tier = strings.ToLower(strings.TrimSpace(tier))
	if tierRank(tier) == len(SponsorTiers) {
		return nil, ErrBadRequest("Invalid sponsor tier")
	}
	return s.List(ctx, SponsorFilter{Tier: tier, Active: "true"})
}

func (s *Sponsors) Get(ctx context.Context, id string) (*models.Sponsor, error) {
	return s.sponsors.Get(ctx, id)
}

func (s *Sponsors) Create(ctx context.Context, in SponsorInput, file *File) (*models.Sponsor, error) {
	sponsor := &models.Sponsor{Active: true}
	in.apply(sponsor)
	if err := s.sponsors.Create(ctx, sponsor, file); err != nil {
		return nil, err
	}
	return sponsor, nil
}

func (s *Sponsors) Update(ctx context.Context, id string, in SponsorInput, file *File) (*models.Sponsor, error) {
	return s.sponsors.Update(ctx, id, func(sponsor *models.Sponsor) error {
		in.apply(sponsor)
		return nil
	}, file)
}

func (s *Sponsors) Delete(ctx context.Context, id string) error {
	return s.sponsors.Delete(ctx, id)
}

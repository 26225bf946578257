package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

const (
	DefaultAuthorName   = "Siamese FilmArt Team"
	DefaultAuthorAvatar = "/assets/logo.png"
	DefaultReadTime     = "5 min read"
)

// AuthorInput accepts an object or, from form posts, its JSON text. Name
// and avatar merge independently.
type AuthorInput struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

func (a *AuthorInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		raw := unquote(data)
		if raw == "" {
			return nil
		}
		data = []byte(raw)
	}
	type plain AuthorInput
	var value plain
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*a = AuthorInput(value)
	return nil
}

type UpdateInput struct {
	Title        *string      `json:"title"`
	Slug         *string      `json:"slug"`
	Excerpt      *string      `json:"excerpt"`
	Content      *string      `json:"content"`
	Category     *string      `json:"category"`
	Date         *Date        `json:"date"`
	ReadTime     *string      `json:"readTime"`
	Tags         *Tags        `json:"tags"`
	Author       *AuthorInput `json:"author"`
	AuthorName   *string      `json:"authorName"`
	AuthorAvatar *string      `json:"authorAvatar"`
	Active       *Bool        `json:"active"`
	Featured     *Bool        `json:"featured"`
	Order        *Int         `json:"order"`
}

func (in UpdateInput) apply(update *models.Update) {
	setString(&update.Title, in.Title)
	if in.Slug != nil {
		update.Slug = Slugify(*in.Slug)
	}
	if in.Excerpt != nil {
		update.Excerpt = PlainText(*in.Excerpt)
	}
	if in.Content != nil {
		update.Content = SanitizeRichText(*in.Content)
	}
	setString(&update.Category, in.Category)
	setTime(&update.Date, in.Date)
	setString(&update.ReadTime, in.ReadTime)
	setTags(&update.Tags, in.Tags)
	if in.Author != nil {
		setString(&update.Author.Name, in.Author.Name)
		setString(&update.Author.Avatar, in.Author.Avatar)
	}
	setString(&update.Author.Name, in.AuthorName)
	setString(&update.Author.Avatar, in.AuthorAvatar)
	setBool(&update.Active, in.Active)
	setBool(&update.Featured, in.Featured)
	setInt(&update.Order, in.Order)
}

type UpdateFilter struct {
	Active   string
	Featured string
	Category string
}

type Updates struct {
	updates Resource[models.Update]
}

func NewUpdates(updates *store.Collection[models.Update], media *MediaManager) *Updates {
	return &Updates{updates: Resource[models.Update]{
		Label:    "Update",
		NotFound: "Update not found",
		Store:    updates,
		Media:    media,
		Profile:  UpdateCoverProfile,
		Asset: func(update *models.Update) (*string, *string) {
			return &update.CoverImage, &update.AssetID
		},
		RequireFile: "Please upload a cover image",
		Normalize: func(update *models.Update) {
			if update.Category == "" {
				update.Category = "Other"
			}
			if update.ReadTime == "" {
				update.ReadTime = DefaultReadTime
			}
			if update.Author.Name == "" {
				update.Author.Name = DefaultAuthorName
			}
			if update.Author.Avatar == "" {
				update.Author.Avatar = DefaultAuthorAvatar
			}
			if update.Tags == nil {
				update.Tags = []string{}
			}
		},
	}}
}

func (u *Updates) List(ctx context.Context, f UpdateFilter) ([]models.Update, error) {
	q := store.Query{}.
		And(flagCond("active", f.Active)...).
		And(flagCond("featured", f.Featured)...).
		And(exactCond("category", f.Category)...).
		OrderBy(store.Desc("date"), store.Asc("order"))
	return u.updates.List(ctx, q)
}

func (u *Updates) Get(ctx context.Context, id string) (*models.Update, error) {
	return u.updates.Get(ctx, id)
}

func (u *Updates) GetBySlug(ctx context.Context, slug string) (*models.Update, error) {
	return u.updates.FindOne(ctx, store.Query{}.And(store.Eq("slug", strings.TrimSpace(slug))))
}

// Create derives the slug from the title unless one is given. Titles
// without any ASCII word characters get a generated slug.
func (u *Updates) Create(ctx context.Context, in UpdateInput, file *File) (*models.Update, error) {
	update := &models.Update{
		Date:   time.Now().UTC().Truncate(time.Millisecond),
		Active: true,
	}
	in.apply(update)
	if update.Slug == "" && update.Title != "" {
		update.Slug = Slugify(update.Title)
		if update.Slug == "" {
			update.Slug = "update-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
		}
	}
	if err := u.updates.Create(ctx, update, file); err != nil {
		return nil, err
	}
	return update, nil
}

// Update keeps the slug when the title changes; only an explicit slug
// replaces it.
func (u *Updates) Update(ctx context.Context, id string, in UpdateInput, file *File) (*models.Update, error) {
	return u.updates.Update(ctx, id, func(update *models.Update) error {
		in.apply(update)
		if update.Slug == "" {
			return ErrValidation([]FieldError{{Field: "slug", Message: "Please provide slug"}})
		}
		return nil
	}, file)
}

func (u *Updates) Delete(ctx context.Context, id string) error {
	return u.updates.Delete(ctx, id)
}

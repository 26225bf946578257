package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

const (
	MaxGalleryBatch     = 10
	galleryUploadLimit  = 3
	galleryDefaultGroup = "other"
)

type GalleryInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Tags        *Tags   `json:"tags"`
	Year        *Int    `json:"year"`
	Featured    *Bool   `json:"featured"`
}

func (in GalleryInput) apply(image *models.GalleryImage) {
	setString(&image.Title, in.Title)
	setString(&image.Description, in.Description)
	setString(&image.Category, in.Category)
	setTags(&image.Tags, in.Tags)
	setInt(&image.Year, in.Year)
	setBool(&image.Featured, in.Featured)
}

type GalleryFilter struct {
	Category string
	Year     string
	Featured string
}

type GalleryView struct {
	models.GalleryImage
	UploadedBy *AdminRef `json:"uploadedBy"`
}

type GalleryStats struct {
	TotalImages    int64              `json:"totalImages"`
	FeaturedImages int64              `json:"featuredImages"`
	CategoryCounts []store.GroupCount `json:"categoryCounts"`
}

// BatchError reports one file of a batch upload that was not stored.
type BatchError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type GalleryBatch struct {
	Data   []models.GalleryImage
	Errors []BatchError
}

type Gallery struct {
	images   Resource[models.GalleryImage]
	accounts *Accounts
}

func NewGallery(images *store.Collection[models.GalleryImage], media *MediaManager, accounts *Accounts) *Gallery {
	return &Gallery{
		images: Resource[models.GalleryImage]{
			Label:    "Image",
			NotFound: "Image not found",
			Store:    images,
			Media:    media,
			Profile:  GalleryImageProfile,
			Asset: func(image *models.GalleryImage) (*string, *string) {
				return &image.ImageURL, &image.AssetID
			},
			RequireFile: "Please upload an image",
			Normalize: func(image *models.GalleryImage) {
				if image.Category == "" {
					image.Category = galleryDefaultGroup
				}
				if image.Tags == nil {
					image.Tags = []string{}
				}
			},
		},
		accounts: accounts,
	}
}

func (g *Gallery) List(ctx context.Context, f GalleryFilter) ([]GalleryView, error) {
	year, err := intCond("year", f.Year)
	if err != nil {
		return nil, err
	}
	q := store.Query{}.
		And(exactCond("category", f.Category)...).
		And(year...).
		And(flagCond("featured", f.Featured)...).
		OrderBy(store.Desc("createdAt"))
	images, err := g.images.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return g.populate(ctx, images...)
}

// Get counts a view before returning the image. Concurrent reads of the
// same image may lose increments.
func (g *Gallery) Get(ctx context.Context, id string) (*GalleryView, error) {
	image, err := g.images.Mutate(ctx, id, func(image *models.GalleryImage) bool {
		image.Views++
		return true
	})
	if err != nil {
		return nil, err
	}
	views, err := g.populate(ctx, *image)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (g *Gallery) newImage(actor *models.Admin, in GalleryInput, fileName string) *models.GalleryImage {
	image := &models.GalleryImage{
		Title: fileName,
		Year:  time.Now().Year(),
		Tags:  []string{},
	}
	in.apply(image)
	if image.Title == "" {
		image.Title = fileName
	}
	if actor != nil {
		image.UploadedBy = actor.ID
	}
	return image
}

// CreateBatch stores one image per file. Each file succeeds or fails on its
// own; failures are reported by file name and never abort the others.
// Results keep the request order.
func (g *Gallery) CreateBatch(ctx context.Context, actor *models.Admin, in GalleryInput, files []File) (GalleryBatch, error) {
	if len(files) == 0 {
		return GalleryBatch{}, ErrBadRequest("Please upload at least one image")
	}
	if len(files) > MaxGalleryBatch {
		return GalleryBatch{}, ErrBadRequest(fmt.Sprintf("You can upload at most %d images at once", MaxGalleryBatch))
	}

	// Shared fields are checked once so a bad category fails the request
	// instead of every file.
	template := g.newImage(actor, in, "pending")
	template.ImageURL, template.AssetID = pendingAsset, pendingAsset
	g.images.Normalize(template)
	if err := Validate(template); err != nil {
		return GalleryBatch{}, err
	}

	created := make([]*models.GalleryImage, len(files))
	failed := make([]error, len(files))
	var group errgroup.Group
	group.SetLimit(galleryUploadLimit)
	for i := range files {
		file := files[i]
		group.Go(func() error {
			image := g.newImage(actor, in, file.Name)
			if err := g.images.Create(ctx, image, &file); err != nil {
				failed[i] = err
				return nil
			}
			created[i] = image
			return nil
		})
	}
	_ = group.Wait()

	batch := GalleryBatch{Data: []models.GalleryImage{}}
	for i, file := range files {
		if failed[i] != nil {
			batch.Errors = append(batch.Errors, BatchError{File: file.Name, Error: ErrorMessage(failed[i])})
			continue
		}
		batch.Data = append(batch.Data, *created[i])
	}
	return batch, nil
}

func (g *Gallery) Update(ctx context.Context, id string, in GalleryInput, file *File) (*models.GalleryImage, error) {
	return g.images.Update(ctx, id, func(image *models.GalleryImage) error {
		in.apply(image)
		return nil
	}, file)
}

func (g *Gallery) Delete(ctx context.Context, id string) error {
	return g.images.Delete(ctx, id)
}

func (g *Gallery) Stats(ctx context.Context) (GalleryStats, error) {
	total, err := g.images.Store.Count(ctx, store.Query{})
	if err != nil {
		return GalleryStats{}, err
	}
	featured, err := g.images.Store.Count(ctx, store.Query{}.And(store.Eq("featured", true)))
	if err != nil {
		return GalleryStats{}, err
	}
	categories, err := g.images.Store.CountBy(ctx, "category")
	if err != nil {
		return GalleryStats{}, err
	}
	return GalleryStats{TotalImages: total, FeaturedImages: featured, CategoryCounts: categories}, nil
}

func (g *Gallery) populate(ctx context.Context, images ...models.GalleryImage) ([]GalleryView, error) {
	ids := make([]string, 0, len(images))
	for _, image := range images {
		ids = append(ids, image.UploadedBy)
	}
	refs, err := g.accounts.Refs(ctx, ids...)
	if err != nil {
		return nil, err
	}
	views := make([]GalleryView, 0, len(images))
	for _, image := range images {
		views = append(views, GalleryView{GalleryImage: image, UploadedBy: refs[image.UploadedBy]})
	}
	return views, nil
}

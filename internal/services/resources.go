package services

import (
	"context"
	"errors"
	"fmt"

	"filmart-backend-go/internal/store"
)

const pendingAsset = "pending"

// Resource is the CRUD pipeline every entity goes through: validate,
// optionally upload an owned image, persist, and release replaced or
// deleted images.
type Resource[T any] struct {
	Label    string
	NotFound string
	Store    *store.Collection[T]

	// Media fields are unset for entities without an owned image.
	Media       *MediaManager
	Profile     ImageProfile
	Asset       func(*T) (url *string, assetID *string)
	RequireFile string

	Normalize func(*T)
}

func (r *Resource[T]) notFound() error {
	if r.NotFound != "" {
		return ErrNotFound(r.NotFound)
	}
	return ErrNotFound(r.Label + " not found")
}

func (r *Resource[T]) translate(err error) error {
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		if conflict.Field == "" {
			return ErrConflict(r.Label + " already exists")
		}
		return ErrConflict(fmt.Sprintf("%s already exists with this %s", r.Label, conflict.Field))
	}
	return err
}

func (r *Resource[T]) List(ctx context.Context, q store.Query) ([]T, error) {
	return r.Store.Find(ctx, q)
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, r.notFound()
	}
	return doc, nil
}

func (r *Resource[T]) FindOne(ctx context.Context, q store.Query) (*T, error) {
	doc, err := r.Store.FindOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, r.notFound()
	}
	return doc, nil
}

// Create validates doc, uploads file when given and inserts the record. An
// uploaded image is removed again when the insert fails.
func (r *Resource[T]) Create(ctx context.Context, doc *T, file *File) error {
	if r.Asset != nil && file == nil && r.RequireFile != "" {
		return ErrBadRequest(r.RequireFile)
	}
	if r.Normalize != nil {
		r.Normalize(doc)
	}
	if err := r.validateWithUpload(doc, file); err != nil {
		return err
	}
	uploaded, err := r.attach(ctx, doc, file)
	if err != nil {
		return err
	}
	if err := r.Store.Insert(ctx, doc); err != nil {
		r.release(ctx, uploaded)
		return r.translate(err)
	}
	return nil
}

// Update loads the record, applies the patch, and stores it. A new image is
// uploaded before the record is written and the old one is deleted only
// after the write succeeded.
func (r *Resource[T]) Update(ctx context.Context, id string, apply func(*T) error, file *File) (*T, error) {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := r.assetID(doc)
	if apply != nil {
		if err := apply(doc); err != nil {
			return nil, err
		}
	}
	if r.Normalize != nil {
		r.Normalize(doc)
	}
	if err := r.validateWithUpload(doc, file); err != nil {
		return nil, err
	}
	uploaded, err := r.attach(ctx, doc, file)
	if err != nil {
		return nil, err
	}
	ok, err := r.Store.Replace(ctx, doc)
	if err != nil || !ok {
		r.release(ctx, uploaded)
		if err != nil {
			return nil, r.translate(err)
		}
		return nil, r.notFound()
	}
	if uploaded != "" && previous != "" && previous != uploaded {
		r.release(ctx, previous)
	}
	return doc, nil
}

// Mutate is a read, transform, write sequence on one record. The write is
// skipped when fn reports no change. Concurrent mutations of the same
// record may overwrite each other.
func (r *Resource[T]) Mutate(ctx context.Context, id string, fn func(*T) bool) (*T, error) {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !fn(doc) {
		return doc, nil
	}
	ok, err := r.Store.Replace(ctx, doc)
	if err != nil {
		return nil, r.translate(err)
	}
	if !ok {
		return nil, r.notFound()
	}
	return doc, nil
}

// Delete releases the owned image first, then removes the record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	r.release(ctx, r.assetID(doc))
	ok, err := r.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return r.notFound()
	}
	return nil
}

// validateWithUpload checks the file and validates doc as if the upload had
// already succeeded, so invalid requests never reach the media host.
func (r *Resource[T]) validateWithUpload(doc *T, file *File) error {
	if r.Asset == nil || file == nil {
		return Validate(doc)
	}
	if err := r.Media.Check(*file); err != nil {
		return err
	}
	url, assetID := r.Asset(doc)
	savedURL, savedID := *url, *assetID
	*url, *assetID = pendingAsset, pendingAsset
	err := Validate(doc)
	*url, *assetID = savedURL, savedID
	return err
}

func (r *Resource[T]) attach(ctx context.Context, doc *T, file *File) (string, error) {
	if r.Asset == nil || file == nil {
		return "", nil
	}
	asset, err := r.Media.Upload(ctx, *file, r.Profile)
	if err != nil {
		return "", err
	}
	url, assetID := r.Asset(doc)
	*url, *assetID = asset.URL, asset.AssetID
	return asset.AssetID, nil
}

func (r *Resource[T]) assetID(doc *T) string {
	if r.Asset == nil {
		return ""
	}
	_, assetID := r.Asset(doc)
	return *assetID
}

func (r *Resource[T]) release(ctx context.Context, assetID string) {
	if r.Media != nil && assetID != "" {
		r.Media.Remove(ctx, assetID)
	}
}

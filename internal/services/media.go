package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxUploadBytes = 5 << 20

// ImageProfile is the folder and bounding box an upload is stored under.
type ImageProfile struct {
	Folder string
	Width  int
	Height int
}

var (
	GalleryImageProfile = ImageProfile{Folder: "siamese-gallery", Width: 1920, Height: 1080}
	HeroSlideProfile    = ImageProfile{Folder: "siamese-hero", Width: 1920, Height: 1080}
	UpdateCoverProfile  = ImageProfile{Folder: "siamese-updates", Width: 1920, Height: 1080}
	SponsorLogoProfile  = ImageProfile{Folder: "siamese-sponsors", Width: 500, Height: 500}
	SpeakerPhotoProfile = ImageProfile{Folder: "siamese-speakers", Width: 500, Height: 500}
)

var allowedImageTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// File is one uploaded request file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Asset struct {
	URL     string
	AssetID string
}

// MediaHost stores processed images and deletes them by asset id.
type MediaHost interface {
	Upload(ctx context.Context, file File, profile ImageProfile) (Asset, error)
	Destroy(ctx context.Context, assetID string) error
}

type MediaManager struct {
	Host     MediaHost
	MaxBytes int64
	Logger   *slog.Logger
}

func NewMediaManager(host MediaHost, maxBytes int64, logger *slog.Logger) *MediaManager {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaManager{Host: host, MaxBytes: maxBytes, Logger: logger}
}

// Check enforces the size ceiling and the image allow-list on both the file
// extension and the sniffed content type.
func (m *MediaManager) Check(file File) error {
	if len(file.Data) == 0 {
		return ErrBadRequest("Uploaded file is empty")
	}
	if int64(len(file.Data)) > m.MaxBytes {
		return ErrTooLarge(fmt.Sprintf("File too large, maximum size is %d MB", m.MaxBytes>>20))
	}
	want, ok := allowedImageTypes[strings.ToLower(filepath.Ext(file.Name))]
	if !ok {
		return ErrUnsupportedMedia("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	if !mimetype.Detect(file.Data).Is(want) {
		return ErrUnsupportedMedia("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	return nil
}

func (m *MediaManager) Upload(ctx context.Context, file File, profile ImageProfile) (Asset, error) {
	if err := m.Check(file); err != nil {
		return Asset{}, err
	}
	asset, err := m.Host.Upload(ctx, file, profile)
	if err != nil {
		m.Logger.ErrorContext(ctx, "media upload failed", "file", file.Name, "folder", profile.Folder, "error", err)
		return Asset{}, ErrUpstream("Image upload failed")
	}
	return asset, nil
}

// Remove deletes an asset. Failures are logged and never returned: the
// owning record mutation goes ahead regardless.
func (m *MediaManager) Remove(ctx context.Context, assetID string) {
	if assetID == "" {
		return
	}
	if err := m.Host.Destroy(ctx, assetID); err != nil {
		m.Logger.WarnContext(ctx, "media delete failed, asset may be orphaned", "assetId", assetID, "error", err)
	}
}

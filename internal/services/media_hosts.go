package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// CloudinaryHost stores images on Cloudinary. Resizing and format/quality
// negotiation happen on their side through the upload transformation.
type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryHost(cloudinaryURL, cloudName, apiKey, apiSecret string) (*CloudinaryHost, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cloudinaryURL)
	} else {
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryHost{cld: cld}, nil
}

func cloudinaryTransformation(profile ImageProfile) string {
	return fmt.Sprintf("c_limit,w_%d,h_%d/q_auto/f_auto", profile.Width, profile.Height)
}

func (h *CloudinaryHost) Upload(ctx context.Context, file File, profile ImageProfile) (Asset, error) {
	res, err := h.cld.Upload.Upload(ctx, bytes.NewReader(file.Data), uploader.UploadParams{
		Folder:         profile.Folder,
		Transformation: cloudinaryTransformation(profile),
	})
	if err != nil {
		return Asset{}, err
	}
	if res.Error.Message != "" {
		return Asset{}, errors.New(res.Error.Message)
	}
	return Asset{URL: res.SecureURL, AssetID: res.PublicID}, nil
}

func (h *CloudinaryHost) Destroy(ctx context.Context, assetID string) error {
	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: assetID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", assetID, res.Result)
	}
	return nil
}

// LocalHost resizes and re-encodes images itself and keeps them on disk
// under Root, served at PublicURL. Asset ids are "<folder>/<file>".
type LocalHost struct {
	Root      string
	PublicURL string
}

func NewLocalHost(root, publicURL string) (*LocalHost, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalHost{Root: root, PublicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (h *LocalHost) Upload(_ context.Context, file File, profile ImageProfile) (Asset, error) {
	img, err := imaging.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return Asset{}, fmt.Errorf("decode image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(file.Data)))
	if b := img.Bounds(); b.Dx() > profile.Width || b.Dy() > profile.Height {
		img = imaging.Fit(img, profile.Width, profile.Height, imaging.Lanczos)
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		// webp has no pure Go encoder
		ext, format = ".jpg", imaging.JPEG
	}
	if ext == ".jpeg" {
		ext = ".jpg"
	}

	dir := filepath.Join(h.Root, profile.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Asset{}, err
	}
	name := uuid.NewString() + ext
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Asset{}, err
	}
	if err := imaging.Encode(out, img, format, imaging.JPEGQuality(85)); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return Asset{}, fmt.Errorf("encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		return Asset{}, err
	}
	assetID := path.Join(profile.Folder, name)
	return Asset{URL: h.PublicURL + "/" + assetID, AssetID: assetID}, nil
}

func (h *LocalHost) Destroy(_ context.Context, assetID string) error {
	clean := path.Clean("/" + assetID)
	if clean == "/" || strings.Contains(assetID, "..") {
		return fmt.Errorf("invalid asset id %q", assetID)
	}
	err := os.Remove(filepath.Join(h.Root, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

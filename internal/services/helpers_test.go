package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"

	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	mu        sync.Mutex
	next      int
	uploaded  []string
	destroyed []string
	failOn    map[string]bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{failOn: map[string]bool{}}
}

func (h *fakeHost) Upload(_ context.Context, file File, profile ImageProfile) (Asset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failOn[file.Name] {
		return Asset{}, errors.New("host unavailable")
	}
	h.next++
	id := fmt.Sprintf("%s/asset-%d", profile.Folder, h.next)
	h.uploaded = append(h.uploaded, id)
	return Asset{URL: "https://media.test/" + id, AssetID: id}, nil
}

func (h *fakeHost) Destroy(_ context.Context, assetID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, assetID)
	return nil
}

func (h *fakeHost) Destroyed() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.destroyed...)
}

func (h *fakeHost) Uploaded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.uploaded...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokens() TokenService {
	return TokenService{Secret: []byte("test-secret-0123456789"), Issuer: "filmart-test", SessionTTL: time.Hour}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngFile(t *testing.T, name string) *File {
	return &File{Name: name, ContentType: "image/png", Data: pngBytes(t)}
}

func newTestServices(t *testing.T) (*Services, *fakeHost) {
	t.Helper()
	host := newFakeHost()
	logger := discardLogger()
	svc := New(Deps{
		Backend: store.NewMemory(),
		Media:   NewMediaManager(host, DefaultMaxUploadBytes, logger),
		Tokens:  testTokens(),
		Revoker: NewMemoryRevoker(),
		Events:  NewEventHub(),
		Logger:  logger,
	})
	return svc, host
}

func mustAdmin(t *testing.T, svc *Services, email, role string) *models.Admin {
	t.Helper()
	admin, err := svc.Accounts.create(context.Background(), RegisterInput{
		Name:     "Admin " + email,
		Email:    email,
		Password: "secret123",
		Role:     role,
	}, &models.Admin{Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	return admin
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	serr, ok := AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %v", err)
	return serr.Status
}

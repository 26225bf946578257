package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"filmart-backend-go/internal/config"
	"filmart-backend-go/internal/services"
	"filmart-backend-go/internal/store"

	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	mu        sync.Mutex
	next      int
	destroyed []string
}

func (h *fakeHost) Upload(_ context.Context, file services.File, profile services.ImageProfile) (services.Asset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := fmt.Sprintf("%s/asset-%d", profile.Folder, h.next)
	return services.Asset{URL: "https://media.test/" + id, AssetID: id}, nil
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

type testAPI struct {
	t       *testing.T
	server  *Server
	handler http.Handler
	host    *fakeHost
}

func newTestAPI(t *testing.T, env string) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := store.NewMemory()
	host := &fakeHost{}
	svc := services.New(services.Deps{
		Backend: backend,
		Media:   services.NewMediaManager(host, services.DefaultMaxUploadBytes, logger),
		Tokens: services.TokenService{
			Secret:     []byte("test-secret-0123456789"),
			Issuer:     "filmart-test",
			SessionTTL: time.Hour,
		},
		Revoker: services.NewMemoryRevoker(),
		Events:  services.NewEventHub(),
		Logger:  logger,
	})
	cfg := config.Config{
		Env:            env,
		MediaProvider:  "cloudinary",
		UploadMaxBytes: services.DefaultMaxUploadBytes,
		CorsOrigins:    []string{"http://localhost:5173"},
	}
	server := NewServer(backend, svc, cfg, logger)
	return &testAPI{t: t, server: server, handler: server.Router(), host: host}
}

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Stack   string          `json:"stack"`
}

type response struct {
	Code int
	Body envelope
	Raw  []byte
}

func (r response) data(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Data, dst), string(r.Raw))
}

func (a *testAPI) do(req *http.Request, token string) response {
	a.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	res := response{Code: rec.Code, Raw: rec.Body.Bytes()}
	if len(res.Raw) > 0 {
		require.NoError(a.t, json.Unmarshal(res.Raw, &res.Body), string(res.Raw))
	}
	return res
}

func (a *testAPI) send(method, path, token string, body any) response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, token)
}

type upload struct {
	field string
	name  string
	data  []byte
}

func (a *testAPI) multipart(method, path, token string, fields map[string]string, files ...upload) response {
	a.t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(a.t, writer.WriteField(key, value))
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.name)
		require.NoError(a.t, err)
		_, err = part.Write(file.data)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, writer.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return a.do(req, token)
}

type session struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func (a *testAPI) register(name, email, role string) session {
	a.t.Helper()
	res := a.send(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, res.Code, string(res.Raw))
	var s session
	res.data(a.t, &s)
	return s
}

func (a *testAPI) login(email string) session {
	a.t.Helper()
	res := a.send(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(a.t, http.StatusOK, res.Code, string(res.Raw))
	var s session
	res.data(a.t, &s)
	return s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{B: 180, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

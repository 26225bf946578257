package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/services"
	"filmart-backend-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndUnknownRoute(t *testing.T) {
	api := newTestAPI(t, "development")

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, "SIAMESE FILMART API is running", health["message"])
	assert.EqualValues(t, 0, health["eventSubscribers"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	api.server.Services.Events.Add(&recordingSubscriber{})
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.EqualValues(t, 1, health["eventSubscribers"])

	res := api.send(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.False(t, res.Body.Success)
	assert.Equal(t, "Route not found", res.Body.Message)
}

type recordingSubscriber struct{ events []any }

func (s *recordingSubscriber) WriteJSON(v any) error {
	s.events = append(s.events, v)
	return nil
}

type downBackend struct{ *store.MemoryBackend }

func (downBackend) Ping(context.Context) error {
	return errors.New("dial tcp 10.0.0.5:27017: connection refused")
}

func TestHealthHidesDatabaseErrorInProduction(t *testing.T) {
	for env, wantError := range map[string]bool{"production": false, "development": true} {
		api := newTestAPI(t, env)
		api.server.Store = downBackend{store.NewMemory()}

		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, env)
		var health struct {
			Status   string         `json:"status"`
			Database databaseHealth `json:"database"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		assert.Equal(t, "DEGRADED", health.Status)
		assert.False(t, health.Database.OK)
		if wantError {
			assert.Contains(t, health.Database.Error, "connection refused")
		} else {
			assert.Empty(t, health.Database.Error)
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		}
	}
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)
	assert.Equal(t, models.RoleSuperAdmin, owner.Role)
	assert.NotEmpty(t, owner.Token)

	wrongPassword := api.send(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "owner@filmart.test", "password": "nope123"})
	unknown := api.send(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@filmart.test", "password": "nope123"})
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, string(wrongPassword.Raw), string(unknown.Raw))

	missing := api.send(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "owner@filmart.test"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, "Please provide email and password", missing.Body.Message)

	current := api.login("owner@filmart.test")
	me := api.send(http.MethodGet, "/api/auth/me", current.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.NotContains(t, string(me.Raw), "password")
	var admin models.Admin
	me.data(t, &admin)
	assert.Equal(t, "owner@filmart.test", admin.Email)
	assert.NotNil(t, admin.LastLogin)

	logout := api.send(http.MethodPost, "/api/auth/logout", current.Token, nil)
	require.Equal(t, http.StatusOK, logout.Code)
	assert.Equal(t, "Logged out successfully", logout.Body.Message)

	revoked := api.send(http.MethodGet, "/api/auth/me", current.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, revoked.Code)

	anonymous := api.send(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Equal(t, "Not authorized, no token", anonymous.Body.Message)
}

func TestRegisterSuperAdminNeedsBootstrapOrSuperAdmin(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	res := api.send(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Mallory", "email": "mallory@filmart.test", "password": "secret123", "role": models.RoleSuperAdmin,
	})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = api.send(http.MethodPost, "/api/auth/register", owner.Token, map[string]string{
		"name": "Deputy", "email": "deputy@filmart.test", "password": "secret123", "role": models.RoleSuperAdmin,
	})
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestConcurrentRegisterYieldsOneConflict(t *testing.T) {
	api := newTestAPI(t, "development")
	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
				strings.NewReader(`{"name":"Twin","email":"twin@filmart.test","password":"secret123"}`))
			req.Header.Set("Content-Type", "application/json")
			api.handler.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}()
	}
	wg.Wait()
	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes)
}

func TestAdminManagement(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	created := api.send(http.MethodPost, "/api/admins", owner.Token, map[string]string{
		"name": "Editor", "email": "editor@filmart.test", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, created.Code, string(created.Raw))
	var editor models.Admin
	created.data(t, &editor)
	assert.Equal(t, models.RoleAdmin, editor.Role)
	assert.Empty(t, editor.Password)

	list := api.send(http.MethodGet, "/api/admins", owner.Token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	require.NotNil(t, list.Body.Count)
	assert.Equal(t, 2, *list.Body.Count)
	assert.NotContains(t, string(list.Raw), "password")

	editorSession := api.login("editor@filmart.test")
	denied := api.send(http.MethodPost, "/api/admins", editorSession.Token, map[string]string{
		"name": "Other", "email": "other@filmart.test", "password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, denied.Code)

	promote := api.send(http.MethodPut, "/api/admins/"+editor.ID, editorSession.Token, map[string]string{"role": models.RoleSuperAdmin})
	assert.Equal(t, http.StatusForbidden, promote.Code)

	rename := api.send(http.MethodPut, "/api/admins/"+editor.ID, editorSession.Token, map[string]string{"name": "Chief Editor"})
	require.Equal(t, http.StatusOK, rename.Code, string(rename.Raw))

	self := api.send(http.MethodDelete, "/api/admins/"+owner.ID, owner.Token, nil)
	assert.Equal(t, http.StatusForbidden, self.Code)
	assert.Equal(t, "You cannot delete your own account", self.Body.Message)

	removed := api.send(http.MethodDelete, "/api/admins/"+editor.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, removed.Code)
	assert.Equal(t, "Admin deleted successfully", removed.Body.Message)

	gone := api.send(http.MethodGet, "/api/admins/"+editor.ID, owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestWriteRoutesRequireSession(t *testing.T) {
	api := newTestAPI(t, "development")
	for _, path := range []string{"/api/agenda", "/api/gallery", "/api/hero-slides", "/api/sponsors", "/api/updates", "/api/speakers"} {
		res := api.send(http.MethodPost, path, "", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusUnauthorized, res.Code, path)
		assert.False(t, res.Body.Success, path)
	}
	res := api.send(http.MethodGet, "/api/inquiries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAgendaFromURLEncodedForm(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	form := url.Values{
		"title":    {"Opening Night"},
		"date":     {"2025-11-20"},
		"time":     {"19:00"},
		"location": {"Main Hall"},
		"speaker":  {"Festival Director"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/agenda", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	created := api.do(req, owner.Token)
	require.Equal(t, http.StatusCreated, created.Code, string(created.Raw))

	list := api.send(http.MethodGet, "/api/agenda?date=2025-11-20", "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var items []struct {
		Title     string `json:"title"`
		Status    string `json:"status"`
		CreatedBy struct {
			Email string `json:"email"`
		} `json:"createdBy"`
	}
	list.data(t, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "upcoming", items[0].Status)
	assert.Equal(t, "owner@filmart.test", items[0].CreatedBy.Email)

	missing := api.send(http.MethodPost, "/api/agenda", owner.Token, map[string]string{"title": "No date"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.NotEmpty(t, missing.Body.Errors)
}

func TestUpdateSlugAndLookup(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	fields := map[string]string{
		"title":   "Festival Opens 2025!!",
		"excerpt": "The doors open",
		"content": "<p>Welcome</p>",
		"tags":    `["festival","opening"]`,
		"author":  `{"name":"Press Office"}`,
	}
	created := api.multipart(http.MethodPost, "/api/updates", owner.Token, fields, upload{"coverImage", "cover.png", pngBytes(t)})
	require.Equal(t, http.StatusCreated, created.Code, string(created.Raw))
	var update models.Update
	created.data(t, &update)
	assert.Equal(t, "festival-opens-2025", update.Slug)
	assert.Equal(t, []string{"festival", "opening"}, update.Tags)
	assert.Equal(t, "Press Office", update.Author.Name)
	assert.Equal(t, services.DefaultAuthorAvatar, update.Author.Avatar)

	bySlug := api.send(http.MethodGet, "/api/updates/slug/festival-opens-2025", "", nil)
	require.Equal(t, http.StatusOK, bySlug.Code)

	duplicate := api.multipart(http.MethodPost, "/api/updates", owner.Token, fields, upload{"coverImage", "cover.png", pngBytes(t)})
	assert.Equal(t, http.StatusConflict, duplicate.Code)

	noCover := api.multipart(http.MethodPost, "/api/updates", owner.Token, map[string]string{"title": "No cover"})
	assert.Equal(t, http.StatusBadRequest, noCover.Code)
	assert.Equal(t, "Please upload a cover image", noCover.Body.Message)
}

func TestGalleryBatchAndViews(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	res := api.multipart(http.MethodPost, "/api/gallery", owner.Token, map[string]string{"category": "festival"},
		upload{"images", "first.png", pngBytes(t)},
		upload{"images", "notes.txt", []byte("not an image")},
		upload{"images", "third.png", pngBytes(t)},
	)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	var batch struct {
		Count  int                   `json:"count"`
		Data   []models.GalleryImage `json:"data"`
		Errors []services.BatchError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(res.Raw, &batch))
	assert.Equal(t, 2, batch.Count)
	require.Len(t, batch.Data, 2)
	assert.Equal(t, "first.png", batch.Data[0].Title)
	assert.Equal(t, "third.png", batch.Data[1].Title)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "notes.txt", batch.Errors[0].File)

	id := batch.Data[0].ID
	for want := 1; want <= 2; want++ {
		got := api.send(http.MethodGet, "/api/gallery/"+id, "", nil)
		require.Equal(t, http.StatusOK, got.Code)
		var image models.GalleryImage
		got.data(t, &image)
		assert.Equal(t, want, image.Views)
	}

	stats := api.send(http.MethodGet, "/api/gallery/stats", "", nil)
	require.Equal(t, http.StatusOK, stats.Code)
	var summary services.GalleryStats
	stats.data(t, &summary)
	assert.EqualValues(t, 2, summary.TotalImages)

	tooMany := make([]upload, services.MaxGalleryBatch+1)
	for i := range tooMany {
		tooMany[i] = upload{"images", "img.png", pngBytes(t)}
	}
	rejected := api.multipart(http.MethodPost, "/api/gallery", owner.Token, nil, tooMany...)
	assert.Equal(t, http.StatusBadRequest, rejected.Code)

	wrongField := api.multipart(http.MethodPost, "/api/gallery", owner.Token, nil, upload{"photo", "a.png", pngBytes(t)})
	assert.Equal(t, http.StatusBadRequest, wrongField.Code)
}

func TestGalleryBatchSkipsOversizedFile(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	huge := append(pngBytes(t), make([]byte, services.DefaultMaxUploadBytes+1)...)
	res := api.multipart(http.MethodPost, "/api/gallery", owner.Token, map[string]string{"category": "festival"},
		upload{"images", "first.png", pngBytes(t)},
		upload{"images", "huge.png", huge},
		upload{"images", "third.png", pngBytes(t)},
	)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	var batch struct {
		Count  int                   `json:"count"`
		Errors []services.BatchError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(res.Raw, &batch))
	assert.Equal(t, 2, batch.Count)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "huge.png", batch.Errors[0].File)
	assert.Contains(t, batch.Errors[0].Error, "too large")
}

func TestGalleryBlankYearKeepsCurrentYear(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	res := api.multipart(http.MethodPost, "/api/gallery", owner.Token, map[string]string{"category": "festival", "year": ""},
		upload{"images", "poster.png", pngBytes(t)},
	)
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	var images []models.GalleryImage
	res.data(t, &images)
	require.Len(t, images, 1)
	assert.Equal(t, time.Now().Year(), images[0].Year)
}

func TestDeleteReleasesOwnedAsset(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	created := api.multipart(http.MethodPost, "/api/hero-slides", owner.Token, map[string]string{"title": "Welcome", "order": "2"},
		upload{"image", "hero.png", pngBytes(t)})
	require.Equal(t, http.StatusCreated, created.Code, string(created.Raw))
	var slide models.HeroSlide
	created.data(t, &slide)
	assert.Equal(t, 2, slide.Order)
	assert.True(t, slide.Active)
	assert.Equal(t, "Learn More", slide.ButtonText)

	removed := api.send(http.MethodDelete, "/api/hero-slides/"+slide.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, removed.Code)
	assert.Equal(t, "Hero slide deleted successfully", removed.Body.Message)
	assert.Equal(t, []string{slide.AssetID}, api.host.Destroyed())

	again := api.send(http.MethodDelete, "/api/hero-slides/"+slide.ID, owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
	assert.Len(t, api.host.Destroyed(), 1)
}

func TestSponsorTierRoute(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	for _, tier := range []string{"silver", "platinum"} {
		res := api.multipart(http.MethodPost, "/api/sponsors", owner.Token, map[string]string{"name": tier + " co", "tier": tier},
			upload{"logo", "logo.png", pngBytes(t)})
		require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	}

	list := api.send(http.MethodGet, "/api/sponsors", "", nil)
	var sponsors []models.Sponsor
	list.data(t, &sponsors)
	require.Len(t, sponsors, 2)
	assert.Equal(t, "platinum", sponsors[0].Tier)

	byTier := api.send(http.MethodGet, "/api/sponsors/tier/silver", "", nil)
	require.Equal(t, http.StatusOK, byTier.Code)
	assert.Equal(t, 1, *byTier.Body.Count)

	invalid := api.send(http.MethodGet, "/api/sponsors/tier/diamond", "", nil)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestInquiryLifecycle(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	submitted := api.send(http.MethodPost, "/api/inquiries", "", map[string]string{
		"name": "Visitor", "email": "visitor@example.com", "title": "Tickets", "message": "When do sales open?",
	})
	require.Equal(t, http.StatusCreated, submitted.Code, string(submitted.Raw))
	assert.Equal(t, "Your message has been sent successfully!", submitted.Body.Message)
	var inquiry models.Inquiry
	submitted.data(t, &inquiry)
	assert.Equal(t, "pending", inquiry.Status)

	first := api.send(http.MethodGet, "/api/inquiries/"+inquiry.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, first.Code)
	var read models.Inquiry
	first.data(t, &read)
	assert.Equal(t, "read", read.Status)
	require.NotNil(t, read.ReadAt)

	time.Sleep(5 * time.Millisecond)
	second := api.send(http.MethodGet, "/api/inquiries/"+inquiry.ID, owner.Token, nil)
	var again models.Inquiry
	second.data(t, &again)
	require.NotNil(t, again.ReadAt)
	assert.True(t, read.ReadAt.Equal(*again.ReadAt))

	replied := api.send(http.MethodPut, "/api/inquiries/"+inquiry.ID, owner.Token, map[string]string{"status": "replied"})
	require.Equal(t, http.StatusOK, replied.Code)

	search := api.send(http.MethodGet, "/api/inquiries?search=visitor", owner.Token, nil)
	assert.Equal(t, 1, *search.Body.Count)

	removed := api.send(http.MethodDelete, "/api/inquiries/"+inquiry.ID, owner.Token, nil)
	assert.Equal(t, "Inquiry deleted successfully", removed.Body.Message)
}

func TestParticipantRegistrationAndCheckIn(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	registered := api.send(http.MethodPost, "/api/participants", "", map[string]string{
		"firstName": "Ana", "lastName": "Lee", "email": "Ana@Example.com", "status": "confirmed",
	})
	require.Equal(t, http.StatusCreated, registered.Code, string(registered.Raw))
	var participant models.Participant
	registered.data(t, &participant)
	assert.Equal(t, "ana@example.com", participant.Email)
	assert.Equal(t, "registered", participant.Status)

	anonymous := api.send(http.MethodGet, "/api/participants", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	checked := api.send(http.MethodPost, "/api/participants/"+participant.ID+"/check-in", owner.Token, nil)
	require.Equal(t, http.StatusOK, checked.Code)
	var after models.Participant
	checked.data(t, &after)
	assert.True(t, after.CheckedIn)
	assert.NotNil(t, after.CheckedInAt)

	list := api.send(http.MethodGet, "/api/participants?checkedIn=true", owner.Token, nil)
	assert.Equal(t, 1, *list.Body.Count)
}

func TestSpeakerWithoutPhoto(t *testing.T) {
	api := newTestAPI(t, "development")
	owner := api.register("Owner", "owner@filmart.test", models.RoleSuperAdmin)

	created := api.send(http.MethodPost, "/api/speakers", owner.Token, map[string]any{
		"name": "Dr. Frame", "email": "frame@example.com", "expertise": "editing, sound",
		"socialMedia": map[string]string{"twitter": "@frame"},
	})
	require.Equal(t, http.StatusCreated, created.Code, string(created.Raw))
	var speaker models.Speaker
	created.data(t, &speaker)
	assert.Equal(t, []string{"editing", "sound"}, speaker.Expertise)
	assert.Equal(t, "@frame", speaker.SocialMedia.Twitter)
	assert.Empty(t, speaker.AssetID)
}

func TestMalformedBody(t *testing.T) {
	api := newTestAPI(t, "development")
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	res := api.do(req, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Invalid request body", res.Body.Message)
}

func TestRecovererHidesStackInProduction(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	dev := newTestAPI(t, "development")
	rec := httptest.NewRecorder()
	dev.server.Recoverer(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "boom", body.Message)
	assert.NotEmpty(t, body.Stack)

	prod := newTestAPI(t, "production")
	rec = httptest.NewRecorder()
	prod.server.Recoverer(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body = Envelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server Error", body.Message)
	assert.Empty(t, body.Stack)
}

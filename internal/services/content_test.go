package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"filmart-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateSlugDerivedFromTitle(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	update, err := svc.Updates.Create(ctx, UpdateInput{
		Title:   ptr("Festival Opens 2025!!"),
		Excerpt: ptr("The doors open"),
		Content: ptr("<p>Welcome</p><script>alert(1)</script>"),
	}, pngFile(t, "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "festival-opens-2025", update.Slug)
	assert.Equal(t, "<p>Welcome</p>", update.Content)
	assert.Equal(t, "Other", update.Category)
	assert.Equal(t, DefaultReadTime, update.ReadTime)
	assert.Equal(t, DefaultAuthorName, update.Author.Name)
	assert.True(t, update.Active)

	bySlug, err := svc.Updates.GetBySlug(ctx, "festival-opens-2025")
	require.NoError(t, err)
	assert.Equal(t, update.ID, bySlug.ID)

	renamed, err := svc.Updates.Update(ctx, update.ID, UpdateInput{Title: ptr("Festival Opens Late")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "festival-opens-2025", renamed.Slug)
}

func TestUpdateSlugConflict(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	in := UpdateInput{Title: ptr("Same Title"), Excerpt: ptr("x"), Content: ptr("y")}

	_, err := svc.Updates.Create(ctx, in, pngFile(t, "a.png"))
	require.NoError(t, err)
	_, err = svc.Updates.Create(ctx, in, pngFile(t, "b.png"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestUpdateConflictReleasesUploadedCover(t *testing.T) {
	svc, host := newTestServices(t)
	ctx := context.Background()
	in := UpdateInput{Title: ptr("Twice"), Excerpt: ptr("x"), Content: ptr("y")}

	_, err := svc.Updates.Create(ctx, in, pngFile(t, "a.png"))
	require.NoError(t, err)
	_, err = svc.Updates.Create(ctx, in, pngFile(t, "b.png"))
	require.Error(t, err)

	uploaded := host.Uploaded()
	require.Len(t, uploaded, 2)
	assert.Equal(t, []string{uploaded[1]}, host.Destroyed())
}

func TestAuthorFieldsMergeIndependently(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	update, err := svc.Updates.Create(ctx, UpdateInput{
		Title: ptr("Jury"), Excerpt: ptr("x"), Content: ptr("y"), AuthorName: ptr("Jury Desk"),
	}, pngFile(t, "c.png"))
	require.NoError(t, err)
	assert.Equal(t, "Jury Desk", update.Author.Name)
	assert.Equal(t, DefaultAuthorAvatar, update.Author.Avatar)

	changed, err := svc.Updates.Update(ctx, update.ID, UpdateInput{
		Author: &AuthorInput{Avatar: ptr("/img/jury.png")},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jury Desk", changed.Author.Name)
	assert.Equal(t, "/img/jury.png", changed.Author.Avatar)
}

func TestMediaEntityRequiresFile(t *testing.T) {
	svc, host := newTestServices(t)
	ctx := context.Background()

	_, err := svc.HeroSlides.Create(ctx, HeroSlideInput{Title: ptr("Opening")}, nil)
	require.Error(t, err)
	assert.Equal(t, "Please upload an image", ErrorMessage(err))

	_, err = svc.Sponsors.Create(ctx, SponsorInput{Name: ptr("Acme")}, nil)
	assert.Equal(t, "Please upload a logo", ErrorMessage(err))
	assert.Empty(t, host.Uploaded())
}

func TestInvalidRecordNeverReachesHost(t *testing.T) {
	svc, host := newTestServices(t)
	_, err := svc.Sponsors.Create(context.Background(), SponsorInput{Name: ptr("Acme"), Tier: ptr("diamond")}, pngFile(t, "logo.png"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Empty(t, host.Uploaded())
}

func TestDeleteReleasesAssetOnce(t *testing.T) {
	svc, host := newTestServices(t)
	ctx := context.Background()

	slide, err := svc.HeroSlides.Create(ctx, HeroSlideInput{Title: ptr("Opening")}, pngFile(t, "hero.png"))
	require.NoError(t, err)
	assert.Equal(t, "Learn More", slide.ButtonText)
	assert.True(t, slide.Active)

	require.NoError(t, svc.HeroSlides.Delete(ctx, slide.ID))
	assert.Equal(t, []string{slide.AssetID}, host.Destroyed())

	err = svc.HeroSlides.Delete(ctx, slide.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.Len(t, host.Destroyed(), 1)
}

func TestReplacingImageDeletesOldAfterWrite(t *testing.T) {
	svc, host := newTestServices(t)
	ctx := context.Background()

	sponsor, err := svc.Sponsors.Create(ctx, SponsorInput{Name: ptr("Acme"), Tier: ptr("gold")}, pngFile(t, "logo.png"))
	require.NoError(t, err)
	oldAsset := sponsor.AssetID

	updated, err := svc.Sponsors.Update(ctx, sponsor.ID, SponsorInput{}, pngFile(t, "logo2.png"))
	require.NoError(t, err)
	assert.NotEqual(t, oldAsset, updated.AssetID)
	assert.Equal(t, []string{oldAsset}, host.Destroyed())

	_, err = svc.Sponsors.Update(ctx, sponsor.ID, SponsorInput{Tier: ptr("diamond")}, pngFile(t, "logo3.png"))
	require.Error(t, err)
	current, err := svc.Sponsors.Get(ctx, sponsor.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.AssetID, current.AssetID)
	assert.Len(t, host.Uploaded(), 2)
}

func TestUpstreamFailureIsReported(t *testing.T) {
	svc, host := newTestServices(t)
	host.failOn["down.png"] = true
	_, err := svc.HeroSlides.Create(context.Background(), HeroSlideInput{Title: ptr("Down")}, pngFile(t, "down.png"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, statusOf(t, err))
}

func TestSponsorsSortByTierThenOrder(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	for _, s := range []SponsorInput{
		{Name: ptr("P1"), Tier: ptr("partner")},
		{Name: ptr("G2"), Tier: ptr("gold"), Order: ptr(NewInt(2))},
		{Name: ptr("PL"), Tier: ptr("platinum")},
		{Name: ptr("G1"), Tier: ptr("gold"), Order: ptr(NewInt(1))},
		{Name: ptr("Off"), Tier: ptr("gold"), Active: ptr(Bool(false))},
	} {
		_, err := svc.Sponsors.Create(ctx, s, pngFile(t, "logo.png"))
		require.NoError(t, err)
	}

	all, err := svc.Sponsors.List(ctx, SponsorFilter{Active: "true"})
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"PL", "G1", "G2", "P1"}, names)

	gold, err := svc.Sponsors.ByTier(ctx, "gold")
	require.NoError(t, err)
	assert.Len(t, gold, 2)

	_, err = svc.Sponsors.ByTier(ctx, "diamond")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestGalleryViewsIncrementPerFetch(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	admin := mustAdmin(t, svc, "curator@example.com", models.RoleAdmin)

	batch, err := svc.Gallery.CreateBatch(ctx, admin, GalleryInput{}, []File{*pngFile(t, "still.png")})
	require.NoError(t, err)
	require.Len(t, batch.Data, 1)
	id := batch.Data[0].ID
	assert.Equal(t, "still.png", batch.Data[0].Title)
	assert.Equal(t, time.Now().Year(), batch.Data[0].Year)

	first, err := svc.Gallery.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Views)
	require.NotNil(t, first.UploadedBy)
	assert.Equal(t, "curator@example.com", first.UploadedBy.Email)

	second, err := svc.Gallery.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Views)
}

func TestGalleryBatchPartialFailure(t *testing.T) {
	svc, host := newTestServices(t)
	ctx := context.Background()
	admin := mustAdmin(t, svc, "curator@example.com", models.RoleAdmin)

	bad := File{Name: "notes.txt", ContentType: "text/plain", Data: []byte("not an image")}
	files := []File{*pngFile(t, "one.png"), bad, *pngFile(t, "three.png")}
	batch, err := svc.Gallery.CreateBatch(ctx, admin, GalleryInput{Category: ptr("festival"), Tags: ptr(Tags{"night", "red"})}, files)
	require.NoError(t, err)

	require.Len(t, batch.Data, 2)
	assert.Equal(t, "one.png", batch.Data[0].Title)
	assert.Equal(t, "three.png", batch.Data[1].Title)
	assert.Equal(t, []string{"night", "red"}, batch.Data[0].Tags)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "notes.txt", batch.Errors[0].File)
	assert.Len(t, host.Uploaded(), 2)
}

func TestGalleryBatchLimits(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Gallery.CreateBatch(ctx, nil, GalleryInput{}, nil)
	assert.Equal(t, "Please upload at least one image", ErrorMessage(err))

	files := make([]File, MaxGalleryBatch+1)
	for i := range files {
		files[i] = *pngFile(t, "x.png")
	}
	_, err = svc.Gallery.CreateBatch(ctx, nil, GalleryInput{}, files)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Gallery.CreateBatch(ctx, nil, GalleryInput{Category: ptr("cinema")}, files[:1])
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestGalleryStatsAndFilters(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	_, err := svc.Gallery.CreateBatch(ctx, nil, GalleryInput{Category: ptr("festival"), Featured: ptr(Bool(true)), Year: ptr(NewInt(2024))},
		[]File{*pngFile(t, "a.png"), *pngFile(t, "b.png")})
	require.NoError(t, err)
	_, err = svc.Gallery.CreateBatch(ctx, nil, GalleryInput{Category: ptr("event")}, []File{*pngFile(t, "c.png")})
	require.NoError(t, err)

	stats, err := svc.Gallery.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalImages)
	assert.EqualValues(t, 2, stats.FeaturedImages)
	assert.Len(t, stats.CategoryCounts, 2)

	featured, err := svc.Gallery.List(ctx, GalleryFilter{Featured: "true", Year: "2024"})
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	_, err = svc.Gallery.List(ctx, GalleryFilter{Year: "last"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestInquiryReadOnce(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	inquiry, err := svc.Inquiries.Submit(ctx, InquiryInput{
		Name: "Visitor", Email: "visitor@example.com", Title: "Tickets", Message: "<b>Hello</b>",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", inquiry.Status)
	assert.Equal(t, "Hello", inquiry.Message)

	first, err := svc.Inquiries.Get(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, "read", first.Status)
	require.NotNil(t, first.ReadAt)

	time.Sleep(5 * time.Millisecond)
	second, err := svc.Inquiries.Get(ctx, inquiry.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt))

	replied, err := svc.Inquiries.SetStatus(ctx, inquiry.ID, "replied")
	require.NoError(t, err)
	assert.True(t, first.ReadAt.Equal(*replied.ReadAt))

	_, err = svc.Inquiries.SetStatus(ctx, inquiry.ID, "archived")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestInquirySearchAndStatusFilter(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	for _, in := range []InquiryInput{
		{Name: "Somchai", Email: "somchai@example.com", Title: "Press pass", Message: "m"},
		{Name: "Anna", Email: "anna@example.com", Title: "Volunteering", Message: "m"},
	} {
		_, err := svc.Inquiries.Submit(ctx, in)
		require.NoError(t, err)
	}

	found, err := svc.Inquiries.List(ctx, InquiryFilter{Search: "PRESS"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Somchai", found[0].Name)

	all, err := svc.Inquiries.List(ctx, InquiryFilter{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	read, err := svc.Inquiries.List(ctx, InquiryFilter{Status: "read"})
	require.NoError(t, err)
	assert.Empty(t, read)
}

func TestInquirySubmitPublishesEvent(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Events.Run(ctx)

	sub := &recordingSubscriber{}
	svc.Events.Add(sub)
	_, err := svc.Inquiries.Submit(ctx, InquiryInput{Name: "V", Email: "v@example.com", Title: "T", Message: "M"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(sub.Events()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, EventInquiryCreated, sub.Events()[0].Type)
}

func TestAgendaDayFilterAndPopulate(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	admin := mustAdmin(t, svc, "planner@example.com", models.RoleAdmin)

	day := Date(time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC))
	nextDay := Date(time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC))
	for _, in := range []AgendaInput{
		{Title: ptr("Late"), Date: &day, Time: ptr("18:30"), Location: ptr("Hall A"), Speaker: ptr("Jury")},
		{Title: ptr("Early"), Date: &day, Time: ptr("09:00"), Location: ptr("Hall A"), Speaker: ptr("Jury")},
		{Title: ptr("Tomorrow"), Date: &nextDay, Time: ptr("09:00"), Location: ptr("Hall B"), Speaker: ptr("Jury")},
	} {
		item, err := svc.Agenda.Create(ctx, admin, in)
		require.NoError(t, err)
		assert.Equal(t, "upcoming", item.Status)
	}

	items, err := svc.Agenda.List(ctx, AgendaFilter{Date: "2025-11-20"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Early", items[0].Title)
	assert.Equal(t, "Late", items[1].Title)
	require.NotNil(t, items[0].CreatedBy)
	assert.Equal(t, admin.ID, items[0].CreatedBy.ID)

	_, err = svc.Agenda.Create(ctx, admin, AgendaInput{Title: ptr("No date")})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestParticipantRegistrationAndCheckIn(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	p, err := svc.Participants.Register(ctx, ParticipantInput{
		FirstName: ptr("Mali"), LastName: ptr("Chai"), Email: ptr("Mali@Example.com"), Status: ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "mali@example.com", p.Email)
	assert.Equal(t, "registered", p.Status)
	assert.Equal(t, "attendee", p.ParticipantType)

	_, err = svc.Participants.Register(ctx, ParticipantInput{FirstName: ptr("M"), LastName: ptr("C"), Email: ptr("mali@example.com")})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	checked, err := svc.Participants.CheckIn(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, checked.CheckedIn)
	require.NotNil(t, checked.CheckedInAt)

	again, err := svc.Participants.CheckIn(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, checked.CheckedInAt.Equal(*again.CheckedInAt))

	listed, err := svc.Participants.List(ctx, ParticipantFilter{CheckedIn: "true", Search: "chai"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestSpeakerPhotoOptional(t *testing.T) {
	svc, host := newTestServices(t)
	ctx := context.Background()

	speaker, err := svc.Speakers.Create(ctx, SpeakerInput{Name: ptr("Director"), Email: ptr("dir@example.com")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", speaker.Status)
	assert.Empty(t, speaker.Photo)

	withPhoto, err := svc.Speakers.Update(ctx, speaker.ID, SpeakerInput{
		SocialMedia: &SocialInput{Twitter: ptr("@director")},
	}, pngFile(t, "face.png"))
	require.NoError(t, err)
	assert.NotEmpty(t, withPhoto.Photo)
	assert.Equal(t, "@director", withPhoto.SocialMedia.Twitter)
	assert.Empty(t, host.Destroyed())
}

type recordingSubscriber struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSubscriber) WriteJSON(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, v.(Event))
	return nil
}

func (r *recordingSubscriber) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

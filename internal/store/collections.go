package store

// Collection specs. Table names must match the embedded SQL migrations.
var (
	Admins = Spec{
		Name:   "admins",
		Unique: []string{"email"},
	}
	AgendaItems = Spec{
		Name:       "agenda_items",
		Indexes:    [][]SortField{{Asc("date"), Asc("time")}},
		TimeFields: []string{"date"},
	}
	GalleryImages = Spec{
		Name:    "gallery_images",
		Indexes: [][]SortField{{Asc("category"), Desc("year")}, {Asc("featured")}},
	}
	HeroSlides = Spec{
		Name:    "hero_slides",
		Indexes: [][]SortField{{Asc("order")}, {Asc("active")}},
	}
	Sponsors = Spec{
		Name:    "sponsors",
		Indexes: [][]SortField{{Asc("tier"), Asc("order")}, {Asc("active")}},
	}
	Updates = Spec{
		Name:       "updates",
		Unique:     []string{"slug"},
		Indexes:    [][]SortField{{Asc("active"), Desc("date")}, {Asc("featured")}},
		TimeFields: []string{"date"},
	}
	Inquiries = Spec{
		Name:       "inquiries",
		Indexes:    [][]SortField{{Desc("createdAt")}, {Asc("status")}},
		TimeFields: []string{"readAt"},
	}
	Speakers = Spec{
		Name:    "speakers",
		Indexes: [][]SortField{{Asc("status")}},
	}
	Participants = Spec{
		Name:       "participants",
		Unique:     []string{"email"},
		Indexes:    [][]SortField{{Asc("status")}, {Asc("participantType")}},
		TimeFields: []string{"registrationDate", "checkedInAt"},
	}
)

// All lists every collection the application binds.
func All() []Spec {
	return []Spec{Admins, AgendaItems, GalleryImages, HeroSlides, Sponsors, Updates, Inquiries, Speakers, Participants}
}

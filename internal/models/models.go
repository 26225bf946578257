package models

import "time"

// Meta is embedded in every stored document. The ID is assigned by the
// store and is never written inside the document body.
type Meta struct {
	ID        string    `json:"_id" bson:"-"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (m *Meta) Metadata() *Meta { return m }

const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Admin struct {
	Meta      `bson:",inline"`
	Name      string     `json:"name" bson:"name" validate:"required,max=100"`
	Email     string     `json:"email" bson:"email" validate:"required,email"`
	Password  string     `json:"password,omitempty" bson:"password" validate:"required"`
	Role      string     `json:"role" bson:"role" validate:"oneof='Admin' 'Super Admin'"`
	Status    string     `json:"status" bson:"status" validate:"oneof=active inactive"`
	LastLogin *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

type AgendaItem struct {
	Meta        `bson:",inline"`
	Title       string    `json:"title" bson:"title" validate:"required"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Date        time.Time `json:"date" bson:"date" validate:"required"`
	Time        string    `json:"time" bson:"time" validate:"required"`
	Location    string    `json:"location" bson:"location" validate:"required"`
	Speaker     string    `json:"speaker" bson:"speaker" validate:"required"`
	Status      string    `json:"status" bson:"status" validate:"oneof=upcoming ongoing completed"`
	CreatedBy   string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
}

type GalleryImage struct {
	Meta        `bson:",inline"`
	Title       string   `json:"title" bson:"title" validate:"required"`
	Description string   `json:"description" bson:"description"`
	ImageURL    string   `json:"imageUrl" bson:"imageUrl" validate:"required"`
	AssetID     string   `json:"assetId" bson:"assetId" validate:"required"`
	Category    string   `json:"category" bson:"category" validate:"oneof=festival exhibition event behind-the-scenes other"`
	Tags        []string `json:"tags" bson:"tags"`
	Year        int      `json:"year" bson:"year" validate:"gte=1900,lte=2100"`
	Featured    bool     `json:"featured" bson:"featured"`
	Views       int      `json:"views" bson:"views" validate:"gte=0"`
	UploadedBy  string   `json:"uploadedBy,omitempty" bson:"uploadedBy,omitempty"`
}

type HeroSlide struct {
	Meta        `bson:",inline"`
	Title       string `json:"title" bson:"title" validate:"required"`
	Subtitle    string `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string `json:"imageUrl" bson:"imageUrl" validate:"required"`
	AssetID     string `json:"assetId" bson:"assetId" validate:"required"`
	ButtonText  string `json:"buttonText" bson:"buttonText"`
	ButtonLink  string `json:"buttonLink,omitempty" bson:"buttonLink,omitempty"`
	Order       int    `json:"order" bson:"order"`
	Active      bool   `json:"active" bson:"active"`
}

type Sponsor struct {
	Meta        `bson:",inline"`
	Name        string `json:"name" bson:"name" validate:"required"`
	LogoURL     string `json:"logoUrl" bson:"logoUrl" validate:"required"`
	AssetID     string `json:"assetId" bson:"assetId" validate:"required"`
	Website     string `json:"website,omitempty" bson:"website,omitempty"`
	Tier        string `json:"tier" bson:"tier" validate:"oneof=platinum gold silver bronze partner"`
	Order       int    `json:"order" bson:"order"`
	Active      bool   `json:"active" bson:"active"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Author struct {
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar" bson:"avatar"`
}

type Update struct {
	Meta       `bson:",inline"`
	Title      string    `json:"title" bson:"title" validate:"required"`
	Slug       string    `json:"slug" bson:"slug" validate:"required"`
	Excerpt    string    `json:"excerpt" bson:"excerpt" validate:"required"`
	Content    string    `json:"content" bson:"content" validate:"required"`
	CoverImage string    `json:"coverImage" bson:"coverImage" validate:"required"`
	AssetID    string    `json:"assetId" bson:"assetId" validate:"required"`
	Category   string    `json:"category" bson:"category" validate:"oneof='Festival Announcement' 'Film Submission' 'Industry News' 'Partnership' 'Event' 'Other'"`
	Date       time.Time `json:"date" bson:"date" validate:"required"`
	ReadTime   string    `json:"readTime" bson:"readTime"`
	Tags       []string  `json:"tags" bson:"tags"`
	Author     Author    `json:"author" bson:"author"`
	Active     bool      `json:"active" bson:"active"`
	Featured   bool      `json:"featured" bson:"featured"`
	Order      int       `json:"order" bson:"order"`
}

type Inquiry struct {
	Meta    `bson:",inline"`
	Name    string     `json:"name" bson:"name" validate:"required"`
	Email   string     `json:"email" bson:"email" validate:"required,email"`
	Phone   string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Title   string     `json:"title" bson:"title" validate:"required"`
	Message string     `json:"message" bson:"message" validate:"required"`
	Status  string     `json:"status" bson:"status" validate:"oneof=pending read replied"`
	ReadAt  *time.Time `json:"readAt,omitempty" bson:"readAt,omitempty"`
}

type SocialMedia struct {
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Website  string `json:"website,omitempty" bson:"website,omitempty"`
}

type Speaker struct {
	Meta         `bson:",inline"`
	Name         string      `json:"name" bson:"name" validate:"required"`
	Email        string      `json:"email" bson:"email" validate:"required,email"`
	Phone        string      `json:"phone,omitempty" bson:"phone,omitempty"`
	Organization string      `json:"organization,omitempty" bson:"organization,omitempty"`
	Position     string      `json:"position,omitempty" bson:"position,omitempty"`
	Bio          string      `json:"bio,omitempty" bson:"bio,omitempty"`
	Photo        string      `json:"photo,omitempty" bson:"photo,omitempty"`
	AssetID      string      `json:"assetId,omitempty" bson:"assetId,omitempty"`
	Expertise    []string    `json:"expertise" bson:"expertise"`
	SocialMedia  SocialMedia `json:"socialMedia" bson:"socialMedia"`
	Status       string      `json:"status" bson:"status" validate:"oneof=confirmed pending cancelled"`
}

type Participant struct {
	Meta             `bson:",inline"`
	FirstName        string     `json:"firstName" bson:"firstName" validate:"required"`
	LastName         string     `json:"lastName" bson:"lastName" validate:"required"`
	Email            string     `json:"email" bson:"email" validate:"required,email"`
	Phone            string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Organization     string     `json:"organization,omitempty" bson:"organization,omitempty"`
	Country          string     `json:"country,omitempty" bson:"country,omitempty"`
	ParticipantType  string     `json:"participantType" bson:"participantType" validate:"oneof=attendee exhibitor speaker student"`
	RegistrationDate time.Time  `json:"registrationDate" bson:"registrationDate"`
	CheckedIn        bool       `json:"checkedIn" bson:"checkedIn"`
	CheckedInAt      *time.Time `json:"checkedInAt,omitempty" bson:"checkedInAt,omitempty"`
	Status           string     `json:"status" bson:"status" validate:"oneof=registered confirmed cancelled"`
}

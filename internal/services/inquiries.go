package services

import (
	"context"
	"strings"
	"time"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

type InquiryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type InquiryFilter struct {
	Status string
	Search string
}

type Inquiries struct {
	inquiries Resource[models.Inquiry]
	events    *EventHub
}

func NewInquiries(inquiries *store.Collection[models.Inquiry], events *EventHub) *Inquiries {
	return &Inquiries{
		inquiries: Resource[models.Inquiry]{
			Label:    "Inquiry",
			NotFound: "Inquiry not found",
			Store:    inquiries,
		},
		events: events,
	}
}

// Submit stores a visitor message. Everything is stored as plain text.
func (s *Inquiries) Submit(ctx context.Context, in InquiryInput) (*models.Inquiry, error) {
	inquiry := &models.Inquiry{
		Name:    PlainText(in.Name),
		Email:   normalizeEmail(in.Email),
		Phone:   PlainText(in.Phone),
		Title:   PlainText(in.Title),
		Message: PlainText(in.Message),
		Status:  "pending",
	}
	if err := s.inquiries.Create(ctx, inquiry, nil); err != nil {
		return nil, err
	}
	s.events.Publish(EventInquiryCreated, map[string]any{
		"_id":   inquiry.ID,
		"name":  inquiry.Name,
		"email": inquiry.Email,
		"title": inquiry.Title,
	})
	return inquiry, nil
}

func (s *Inquiries) List(ctx context.Context, f InquiryFilter) ([]models.Inquiry, error) {
	q := store.Query{}
	if status := strings.TrimSpace(f.Status); status != "" && status != "all" {
		q = q.And(store.Eq("status", status))
	}
	q = q.Or(searchConds(f.Search, "name", "email", "title")...).OrderBy(store.Desc("createdAt"))
	return s.inquiries.List(ctx, q)
}

// Get marks a pending inquiry as read. readAt is stamped once. Two
// concurrent first reads may both write it.
func (s *Inquiries) Get(ctx context.Context, id string) (*models.Inquiry, error) {
	return s.inquiries.Mutate(ctx, id, func(inquiry *models.Inquiry) bool {
		if inquiry.Status != "pending" {
			return false
		}
		inquiry.Status = "read"
		markRead(inquiry)
		return true
	})
}

// SetStatus is the only admin edit of an inquiry.
func (s *Inquiries) SetStatus(ctx context.Context, id, status string) (*models.Inquiry, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrValidation([]FieldError{{Field: "status", Message: "Please provide status"}})
	}
	return s.inquiries.Update(ctx, id, func(inquiry *models.Inquiry) error {
		inquiry.Status = status
		if status == "read" || status == "replied" {
			markRead(inquiry)
		}
		return nil
	}, nil)
}

func (s *Inquiries) Delete(ctx context.Context, id string) error {
	return s.inquiries.Delete(ctx, id)
}

func markRead(inquiry *models.Inquiry) {
	if inquiry.ReadAt == nil {
		now := time.Now().UTC().Truncate(time.Millisecond)
		inquiry.ReadAt = &now
	}
}

package services

import (
	"context"

	"filmart-backend-go/internal/models"
	"filmart-backend-go/internal/store"
)

type AgendaInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *Date   `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Speaker     *string `json:"speaker"`
	Status      *string `json:"status"`
}

func (in AgendaInput) apply(item *models.AgendaItem) {
	setString(&item.Title, in.Title)
	setString(&item.Description, in.Description)
	setTime(&item.Date, in.Date)
	setString(&item.Time, in.Time)
	setString(&item.Location, in.Location)
	setString(&item.Speaker, in.Speaker)
	setString(&item.Status, in.Status)
}

type AgendaFilter struct {
	Status string
	Date   string
}

type AgendaView struct {
	models.AgendaItem
	CreatedBy *AdminRef `json:"createdBy"`
}

type Agenda struct {
	items    Resource[models.AgendaItem]
	accounts *Accounts
}

func NewAgenda(items *store.Collection[models.AgendaItem], accounts *Accounts) *Agenda {
	return &Agenda{
		items: Resource[models.AgendaItem]{
			Label:    "Agenda item",
			NotFound: "Agenda item not found",
			Store:    items,
			Normalize: func(item *models.AgendaItem) {
				if item.Status == "" {
					item.Status = "upcoming"
				}
			},
		},
		accounts: accounts,
	}
}

func (a *Agenda) List(ctx context.Context, f AgendaFilter) ([]AgendaView, error) {
	q := store.Query{}.And(exactCond("status", f.Status)...)
	day, err := dayCond("date", f.Date)
	if err != nil {
		return nil, err
	}
	q = q.And(day...).OrderBy(store.Asc("date"), store.Asc("time"))
	items, err := a.items.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return a.populate(ctx, items...)
}

func (a *Agenda) Get(ctx context.Context, id string) (*AgendaView, error) {
	item, err := a.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := a.populate(ctx, *item)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (a *Agenda) Create(ctx context.Context, actor *models.Admin, in AgendaInput) (*models.AgendaItem, error) {
	item := &models.AgendaItem{}
	in.apply(item)
	if actor != nil {
		item.CreatedBy = actor.ID
	}
	if err := a.items.Create(ctx, item, nil); err != nil {
		return nil, err
	}
	return item, nil
}

func (a *Agenda) Update(ctx context.Context, id string, in AgendaInput) (*models.AgendaItem, error) {
	return a.items.Update(ctx, id, func(item *models.AgendaItem) error {
		in.apply(item)
		return nil
	}, nil)
}

func (a *Agenda) Delete(ctx context.Context, id string) error {
	return a.items.Delete(ctx, id)
}

func (a *Agenda) populate(ctx context.Context, items ...models.AgendaItem) ([]AgendaView, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.CreatedBy)
	}
	refs, err := a.accounts.Refs(ctx, ids...)
	if err != nil {
		return nil, err
	}
	views := make([]AgendaView, 0, len(items))
	for _, item := range items {
		views = append(views, AgendaView{AgendaItem: item, CreatedBy: refs[item.CreatedBy]})
	}
	return views, nil
}

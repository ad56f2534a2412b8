package repositories

import (
	"context"
	"encoding/json"

	"foodtruck_backend/internal/models"
)

// BookingRepository persists bookings as one "bookings" document.
type BookingRepository interface {
	List(ctx context.Context) ([]models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, id string, fn func(*models.Booking) (bool, error)) (*models.Booking, error)
	// Replace overwrites the document with a backup copy, kept verbatim.
	Replace(ctx context.Context, raw json.RawMessage) error
}

type bookingRepository struct {
	list *documentList[models.Booking]
}

func NewBookingRepository(store DocumentStore) BookingRepository {
	return &bookingRepository{list: &documentList[models.Booking]{store: store, key: models.ContentBookings}}
}

func (r *bookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	return r.list.all(ctx)
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.list.append(ctx, *booking)
}

func (r *bookingRepository) Update(ctx context.Context, id string, fn func(*models.Booking) (bool, error)) (*models.Booking, error) {
	return r.list.modify(ctx, func(b *models.Booking) bool { return b.ID == id }, fn)
}

func (r *bookingRepository) Replace(ctx context.Context, raw json.RawMessage) error {
	return r.list.replaceRaw(ctx, raw)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/pkg/utils"
)

// --- Booking DTOs ---

type CreateBookingRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	EventDate  string `json:"eventDate"`
	EventTime  string `json:"eventTime"`
	Location   string `json:"location"`
	Address    string `json:"address"`
	EventType  string `json:"eventType"`
	GuestCount int    `json:"guestCount"`
	Message    string `json:"message"`
}

type UpdateBookingRequest struct {
	ID         string                `json:"id"`
	Status     *models.BookingStatus `json:"status"`
	AdminNotes *string               `json:"adminNotes"`
	Private    *bool                 `json:"private"`
}

// --- BookingService Interface ---
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	GetBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, req UpdateBookingRequest) (*models.Booking, error)
}

// --- bookingService Implementation ---
type bookingService struct {
	bookingRepo repositories.BookingRepository
	now         func() time.Time
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(bookingRepo repositories.BookingRepository) BookingService {
	return &bookingService{bookingRepo: bookingRepo, now: func() time.Time { return time.Now().UTC() }}
}

func validateBookingRequest(req CreateBookingRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"eventDate", req.EventDate},
		{"eventTime", req.EventTime},
		{"location", req.Location},
		{"address", req.Address},
		{"eventType", req.EventType},
	}
	for _, r := range required {
		if utils.IsEmpty(r.value) {
			return fmt.Errorf("%w: missing required field: %s", ErrBookingValidation, r.field)
		}
	}
	if req.GuestCount == 0 {
		return fmt.Errorf("%w: missing required field: guestCount", ErrBookingValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return fmt.Errorf("%w: invalid email format", ErrBookingValidation)
	}
	if req.GuestCount < 1 {
		return fmt.Errorf("%w: guest count must be a positive number", ErrBookingValidation)
	}
	return nil
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	booking := &models.Booking{
		ID:         utils.NewEntityID("booking", now),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		EventDate:  req.EventDate,
		EventTime:  req.EventTime,
		Location:   req.Location,
		Address:    req.Address,
		EventType:  req.EventType,
		GuestCount: req.GuestCount,
		Message:    req.Message,
		Status:     models.BookingStatusPending,
		CreatedAt:  now,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Booking request received", map[string]interface{}{"booking_id": booking.ID, "event_date": booking.EventDate})
	return booking, nil
}

func (s *bookingService) GetBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return bookings, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, req UpdateBookingRequest) (*models.Booking, error) {
	if utils.IsEmpty(req.ID) || req.Status == nil {
		return nil, fmt.Errorf("%w: missing id or status", ErrInvalidInput)
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidBookingStatus
	}

	updated, err := s.bookingRepo.Update(ctx, req.ID, func(b *models.Booking) (bool, error) {
		b.Status = *req.Status
		if req.AdminNotes != nil {
			b.AdminNotes = *req.AdminNotes
		}
		if req.Private != nil {
			b.Private = *req.Private
		}
		return true, nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Booking updated", map[string]interface{}{"booking_id": updated.ID, "status": updated.Status})
	return updated, nil
}

package models

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusDenied    BookingStatus = "denied"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusDenied:
		return true
	}
	return false
}

// Booking is a catering / private event request.
type Booking struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	EventDate  string        `json:"eventDate"`
	EventTime  string        `json:"eventTime"`
	Location   string        `json:"location"`
	Address    string        `json:"address"`
	EventType  string        `json:"eventType"`
	GuestCount int           `json:"guestCount"`
	Message    string        `json:"message,omitempty"`
	Private    bool          `json:"private,omitempty"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	AdminNotes string        `json:"adminNotes,omitempty"`
}

package handlers

import (
	"errors"
	"net/http"

	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// CreateBooking handles a public catering request.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBooking: Failed to bind JSON")
		respondInvalidJSON(c, err)
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrBookingValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, detailMessage(err, services.ErrBookingValidation), err.Error()))
		} else {
			respondServiceError(c, err, "Failed to submit booking request.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": booking.ID})
}

// GetBookings lists every booking for the admin screen.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetBookings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch bookings.")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBooking changes status and optionally notes / visibility.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req services.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request")
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "UpdateBooking: Error from bookingService.UpdateBooking for ID "+req.ID)
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			utils.RespondValidationFailed(c, "Missing id or status")
		case errors.Is(err, services.ErrInvalidBookingStatus):
			utils.RespondValidationFailed(c, "Invalid status")
		case errors.Is(err, services.ErrBookingNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found", err.Error()))
		default:
			respondServiceError(c, err, "Failed to update booking.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

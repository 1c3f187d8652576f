package handlers

import (
	"errors"
	"net/http"

	"putzelf/models"
	"putzelf/services/booking"
	"putzelf/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListBookings handles GET /api/bookings with optional location, date and
// category filters.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Location: c.Query("location"),
		Date:     c.Query("date"),
	}
	if category := c.Query("category"); category != "" {
		filter.Category = models.ParseCategory(category)
		if filter.Category == models.CategoryLegacy {
			filter.CategoryLabel = category
		}
	}

	bookings, err := h.Service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	found, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, found)
}

// ConfirmBooking handles PUT /api/bookings/:id/confirm. A confirmed booking
// whose notification failed still responds 200: the booking succeeded, and
// the response carries a notification warning instead of an error status.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var input models.ConfirmBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	confirmed, err := h.Service.ConfirmBooking(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		var notifErr *booking.NotificationError
		if errors.As(err, &notifErr) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Booking confirmed, confirmation email could not be sent",
				"booking": confirmed,
				"notification": gin.H{
					"status": "failed",
					"reason": notifErr.Err.Error(),
				},
			})
			return
		}
		h.respondError(c, err, "failed to confirm booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking confirmed and email sent",
		"booking": confirmed,
	})
}

// respondError maps domain errors onto HTTP statuses.
func (h *BookingHandler) respondError(c *gin.Context, err error, fallback string) {
	var validationErr *booking.ValidationError
	if errors.As(err, &validationErr) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", validationErr.Error())
		return
	}
	var notFoundErr *booking.NotFoundError
	if errors.As(err, &notFoundErr) {
		utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
		return
	}
	h.Logger.Error(fallback, zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, fallback, "")
}

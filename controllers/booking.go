package controllers

import (
	"errors"
	"net/http"

	"cleancut-backend/config"
	"cleancut-backend/middleware"
	"cleancut-backend/models"
	"cleancut-backend/services"
	"cleancut-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

// GetAvailableSlots returns the slot grid for ?date=YYYY-MM-DD.
func GetAvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "date query parameter required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": Bookings.ListAvailableSlots(date)})
}

func CreateBooking(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input services.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// The service code must exist in the catalog
	var svc models.Service
	if err := config.DB.First(&svc, "code = ? AND is_active = ?", input.Service, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown service")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	booking, err := Bookings.CreateBooking(user, input)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetMyBookings lists the caller's bookings, newest first.
func GetMyBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	bookings, err := Bookings.GetUserBookings(user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetAllBookings lists every booking (owner/admin only).
func GetAllBookings(c *gin.Context) {
	bookings, err := Bookings.GetAllBookings()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return uuid.Nil, false
	}
	return id, true
}

// UpdateBookingStatus overwrites a booking's status (owner/admin only).
// The status value is validated; the transition is not.
func UpdateBookingStatus(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var input UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := Bookings.UpdateStatus(id, input.Status)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking cancels the caller's own booking. Owners and admins
// can cancel any booking.
func CancelBooking(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	booking, err := Bookings.GetBooking(id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if booking.UserID != user.ID && !user.IsOwner() {
		utils.RespondWithError(c, http.StatusForbidden, "Not your booking")
		return
	}

	cancelled, err := Bookings.CancelBooking(id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, cancelled)
}

// GetBookingStats returns the on-demand status counters (owner/admin only).
func GetBookingStats(c *gin.Context) {
	stats, err := Bookings.Stats()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

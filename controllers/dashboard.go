package controllers

import (
	"net/http"
	"time"

	"cleancut-backend/config"
	"cleancut-backend/models"
	"cleancut-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview assembles the owner dashboard: today's
// schedule, status breakdown and this month's revenue.
func GetDashboardOverview(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var todayBookings []models.Booking
	if err := config.DB.
		Where("date = ? AND status <> ?", today, models.BookingCancelled).
		Order("time ASC").
		Find(&todayBookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load today's bookings")
		return
	}

	stats, err := Bookings.Stats()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	var recent []models.Booking
	config.DB.Order("created_at DESC").Limit(10).Find(&recent)

	rates, err := serviceRates()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load services")
		return
	}

	monthStart := utils.BeginningOfMonth(time.Now())
	var completedThisMonth []models.Booking
	config.DB.
		Where("status = ? AND created_at >= ?", models.BookingCompleted, monthStart).
		Find(&completedThisMonth)

	var monthRevenue float64
	for _, b := range completedThisMonth {
		monthRevenue += rates[b.Service]
	}

	c.JSON(http.StatusOK, gin.H{
		"todayBookings":  todayBookings,
		"todayCount":     len(todayBookings),
		"stats":          stats,
		"recentBookings": recent,
		"monthRevenue":   monthRevenue,
	})
}

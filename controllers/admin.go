package controllers

import (
	"errors"
	"net/http"
	"time"

	"cleancut-backend/config"
	"cleancut-backend/models"
	"cleancut-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateOwnerInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// GetUsers lists accounts, optionally filtered by ?role=.
func GetUsers(c *gin.Context) {
	query := config.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateOwner registers a shop-owner account (admin only).
func CreateOwner(c *gin.Context) {
	var input CreateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone := utils.FormatPhoneNumber(input.PhoneNumber)

	var existing models.User
	result := config.DB.Where("email = ?", input.Email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	owner := models.User{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		PhoneNumber: phone,
		Role:        models.RoleOwner,
		IsActive:    true,
	}

	if err := config.DB.Create(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create owner")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userResponse(&owner)})
}

// ToggleUserStatus flips the active flag on an account.
func ToggleUserStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&user).Update("is_active", !user.IsActive).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "isActive": !user.IsActive})
}

// DeleteUser removes an account (admin only).
func DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	// the one hard delete in the system; frees the email for re-registration
	result := config.DB.Unscoped().Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetAdminStats recomputes platform-wide counters from the user and
// booking collections.
func GetAdminStats(c *gin.Context) {
	var totalUsers, totalOwners, totalCustomers, totalBookings int64

	if err := config.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleOwner).Count(&totalOwners)
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&totalCustomers)
	config.DB.Model(&models.Booking{}).Count(&totalBookings)

	rates, err := serviceRates()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	monthStart := utils.BeginningOfMonth(time.Now())

	var completed []models.Booking
	config.DB.Where("status = ?", models.BookingCompleted).Find(&completed)

	var totalRevenue, monthRevenue float64
	for _, b := range completed {
		rate := rates[b.Service]
		totalRevenue += rate
		if b.CreatedAt.After(monthStart) {
			monthRevenue += rate
		}
	}

	var monthBookings, monthUsers int64
	config.DB.Model(&models.Booking{}).Where("created_at >= ?", monthStart).Count(&monthBookings)
	config.DB.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&monthUsers)

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":     totalUsers,
		"totalOwners":    totalOwners,
		"totalCustomers": totalCustomers,
		"totalBookings":  totalBookings,
		"totalRevenue":   totalRevenue,
		"monthlyStats": gin.H{
			"bookings": monthBookings,
			"revenue":  monthRevenue,
			"newUsers": monthUsers,
		},
	})
}

// serviceRates loads the catalog price per service code.
func serviceRates() (map[string]float64, error) {
	var services []models.Service
	if err := config.DB.Find(&services).Error; err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(services))
	for _, s := range services {
		rates[s.Code] = s.Price
	}
	return rates, nil
}

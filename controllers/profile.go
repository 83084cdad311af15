// controllers/profile.go
package controllers

import (
	"net/http"

	"cleancut-backend/config"
	"cleancut-backend/middleware"
	"cleancut-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	DisplayName *string `json:"displayName" binding:"omitempty,min=2"`
	PhoneNumber *string `json:"phoneNumber"`
}

// GetProfile returns the caller's profile with their booking summary.
func GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "User not found in context")
		return
	}

	stats, err := Bookings.UserStats(user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load booking stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userResponse(user),
		"stats": stats,
	})
}

// UpdateProfile changes display name and phone. A new phone number
// resets the verification flag until it passes OTP again.
func UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "User not found in context")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}

	if input.PhoneNumber != nil {
		phone := utils.FormatPhoneNumber(*input.PhoneNumber)
		if !utils.ValidatePhone(phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		if phone != user.PhoneNumber {
			user.PhoneNumber = phone
			user.IsPhoneVerified = false
		}
	}

	if err := config.DB.Save(user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

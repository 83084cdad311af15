package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cleancut-backend/config"
	"cleancut-backend/middleware"
	"cleancut-backend/models"
	"cleancut-backend/services"
	"cleancut-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Otp and Bookings are the shared service instances, wired in
// routes.SetupRouter.
var (
	Otp      services.OtpVerifier
	Bookings *services.BookingService
)

type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

type ForgotPasswordInput struct {
	Identifier string `json:"identifier" binding:"required"`
}

type ResetPasswordInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"displayName":     user.DisplayName,
		"phoneNumber":     user.PhoneNumber,
		"role":            user.Role,
		"isPhoneVerified": user.IsPhoneVerified,
	}
}

func setTokenCookie(c *gin.Context, token string) {
	maxAge := int(utils.TokenExpiry().Seconds())
	c.SetCookie("token", token, maxAge, "/", "", true, true)
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone := utils.FormatPhoneNumber(input.PhoneNumber)
	if !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if email or phone already exists
	var existingUser models.User
	result := config.DB.Where("email = ? OR phone_number = ?", input.Email, phone).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	newUser := models.User{
		Email:       input.Email,
		Password:    input.Password, // Will be hashed in BeforeCreate hook
		DisplayName: input.DisplayName,
		PhoneNumber: phone,
		Role:        models.RoleCustomer,
		IsActive:    true,
	}

	if err := config.DB.Create(&newUser).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    userResponse(&newUser),
		"landing": middleware.LandingPath(newUser.Role),
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	// Identifier can be an email or a phone number
	var user models.User
	result := config.DB.
		Where("email = ? OR phone_number = ?", identifier, utils.FormatPhoneNumber(identifier)).
		First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Update last login
	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	setTokenCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    userResponse(&user),
		"landing": middleware.LandingPath(user.Role),
	})
}

func Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "User not found in context")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userResponse(user),
		"landing": middleware.LandingPath(user.Role),
	})
}

// ForgotPassword starts the phone-based reset flow by sending an OTP
// to the account's phone number. The response is the same whether or
// not the account exists.
func ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.
		Where("email = ? OR phone_number = ?", identifier, utils.FormatPhoneNumber(identifier)).
		First(&user)

	if result.Error == nil && user.PhoneNumber != "" {
		if _, err := Otp.SendCode(user.PhoneNumber); err != nil {
			if errors.Is(err, services.ErrRateLimited) {
				utils.RespondWithError(c, http.StatusTooManyRequests, err.Error())
				return
			}
			utils.RespondWithError(c, http.StatusBadGateway, "Failed to send reset code")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent"})
}

// ResetPassword verifies the OTP and replaces the password.
func ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone, err := Otp.VerifyCode(input.PhoneNumber, input.Code)
	if err != nil {
		respondOtpError(c, err)
		return
	}

	var user models.User
	if err := config.DB.First(&user, "phone_number = ?", phone).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "No account for this phone number")
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"password":          hashed,
		"is_phone_verified": true,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

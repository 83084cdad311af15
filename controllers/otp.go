// controllers/otp.go
package controllers

import (
	"errors"
	"net/http"

	"cleancut-backend/config"
	"cleancut-backend/models"
	"cleancut-backend/services"
	"cleancut-backend/utils"

	"github.com/gin-gonic/gin"
)

type SendOtpInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type VerifyOtpInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

func respondOtpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRateLimited):
		utils.RespondWithError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrNoSession):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrOtpExpired):
		utils.RespondWithError(c, http.StatusGone, err.Error())
	case errors.Is(err, services.ErrInvalidCode):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidPhone):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to process verification code")
	}
}

// SendOtp issues a verification code to the given phone number.
func SendOtp(c *gin.Context) {
	var input SendOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone, err := Otp.SendCode(input.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      err.Error(),
				"retryAfter": int(Otp.RemainingCooldown(input.PhoneNumber).Seconds()),
			})
			return
		}
		respondOtpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Verification code sent",
		"phoneNumber": phone,
		"mode":        Otp.Mode(),
	})
}

// VerifyOtp confirms a code. If an account holds this phone number its
// verification flag is set.
func VerifyOtp(c *gin.Context) {
	var input VerifyOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone, err := Otp.VerifyCode(input.PhoneNumber, input.Code)
	if err != nil {
		respondOtpError(c, err)
		return
	}

	// Session is cleared by the verifier; flag the owning account.
	config.DB.Model(&models.User{}).
		Where("phone_number = ?", phone).
		Update("is_phone_verified", true)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Phone number verified successfully",
		"phoneNumber": phone,
	})
}

// ResendOtp re-sends the code for an existing session.
func ResendOtp(c *gin.Context) {
	var input SendOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := Otp.ResendCode(input.PhoneNumber); err != nil {
		respondOtpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code resent"})
}

// CancelOtp drops the outstanding session, e.g. when the user backs
// out of the verification step.
func CancelOtp(c *gin.Context) {
	var input SendOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	Otp.ClearSession(input.PhoneNumber)
	c.JSON(http.StatusOK, gin.H{"message": "Session cleared"})
}

package routes

import (
	"os"
	"strings"

	"cleancut-backend/config"
	"cleancut-backend/controllers"
	"cleancut-backend/middleware"
	"cleancut-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:4200", "http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// shared service instances
	if controllers.Otp == nil {
		controllers.Otp = services.NewAdaptiveOtpVerifier()
	}
	if controllers.Bookings == nil {
		controllers.Bookings = services.NewBookingService(config.DB)
	}

	authLimiter := middleware.NewRateLimiter(1, 5)

	auth := r.Group("/auth")
	auth.Use(middleware.RateLimit(authLimiter))
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)

		auth.GET("/me", middleware.AuthRequired(), controllers.Me)
	}

	otp := r.Group("/otp")
	otp.Use(middleware.RateLimit(authLimiter))
	{
		otp.POST("/send", controllers.SendOtp)
		otp.POST("/verify", controllers.VerifyOtp)
		otp.POST("/resend", controllers.ResendOtp)
		otp.DELETE("/session", controllers.CancelOtp)
	}

	// Public catalog and availability
	r.GET("/services", controllers.GetServices)
	r.GET("/services/:code", controllers.GetService)
	r.GET("/bookings/slots", controllers.GetAvailableSlots)

	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// Profile routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", controllers.CreateBooking)
			bookings.GET("/my", controllers.GetMyBookings)
			bookings.DELETE("/:id", controllers.CancelBooking)
		}

		// Owner routes
		owner := api.Group("/owner")
		owner.Use(middleware.RequireOwner())
		{
			owner.GET("/bookings", controllers.GetAllBookings)
			owner.PUT("/bookings/:id/status", controllers.UpdateBookingStatus)
			owner.GET("/stats", controllers.GetBookingStats)
			owner.GET("/dashboard", controllers.GetDashboardOverview)

			owner.POST("/services", controllers.CreateService)
			owner.PUT("/services/:code", controllers.UpdateService)
			owner.DELETE("/services/:code", controllers.DeleteService)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/stats", controllers.GetAdminStats)
			admin.GET("/users", controllers.GetUsers)
			admin.POST("/owners", controllers.CreateOwner)
			admin.PUT("/users/:id/toggle-status", controllers.ToggleUserStatus)
			admin.DELETE("/users/:id", controllers.DeleteUser)
		}
	}

	return r
}

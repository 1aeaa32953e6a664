package routes

import (
	"net/http"
	"time"

	"lawlink/handlers"
	"lawlink/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers onboarding and identity endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/check-role", hb.CheckRoleHandler)
		api.POST("/onboard", hb.OnboardHandler)
		api.GET("/me", hb.GetMeHandler)
	}
}

// RegisterLawyerRoutes registers the provider catalog endpoints. Reads
// are public; writes require the owning lawyer.
func RegisterLawyerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/lawyers")
	{
		api.GET("", hb.SearchLawyersHandler)
		api.GET("/:id", hb.GetLawyerHandler)
		api.GET("/:id/availability", hb.GetAvailabilityHandler)
		api.GET("/:id/reviews", hb.ListLawyerReviewsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.PATCH("/:id", hb.UpdateLawyerHandler)
		protected.DELETE("/:id", hb.DeactivateLawyerHandler)
		protected.PUT("/:id/availability", hb.SetAvailabilityHandler)
	}
}

// RegisterClientRoutes registers the client profile endpoints.
func RegisterClientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/clients")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.GetClientProfileHandler)
		api.PATCH("/me", hb.UpdateClientProfileHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.PATCH("/:id", hb.UpdateBookingNotesHandler)
		api.POST("/:id/approve", hb.ApproveBookingHandler)
		api.POST("/:id/reject", hb.RejectBookingHandler)
		api.POST("/:id/complete", hb.CompleteBookingHandler)
		api.POST("/:id/cancel", hb.CancelBookingHandler)
		api.POST("/:id/payment-intent", hb.CreatePaymentIntentHandler)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.GET("", hb.ListReviewsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.SubmitReviewHandler)
		protected.POST("/:id/respond", hb.RespondToReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm LawLink"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterLawyerRoutes(r, hb)
	RegisterClientRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterHealthRoute(r)
}

package routes

import (
	"context"
	"errors"

	"vetconnect-server/internal/booking"
	"vetconnect-server/internal/config"
	"vetconnect-server/internal/handlers"
	"vetconnect-server/internal/middleware"
	"vetconnect-server/internal/models"
	"vetconnect-server/internal/payment"
	"vetconnect-server/internal/signaling"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Services
	bookingRepo := booking.NewGormRepository(db)
	bookingSvc := booking.NewService(bookingRepo)
	paymentSvc := payment.NewService(payment.NewGormStore(db), cfg.Payment)

	// Signaling: one registry per process, handed to the relay explicitly.
	// Joining a room is only allowed for rooms backed by a real appointment.
	registry := signaling.NewRegistry()
	roomValidator := signaling.RoomValidatorFunc(func(ctx context.Context, roomID string) (bool, error) {
		_, err := bookingSvc.AppointmentByID(ctx, roomID)
		if errors.Is(err, booking.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	})
	relay := signaling.NewRelay(registry, roomValidator, signaling.LogSink{})
	hub := signaling.NewHub(relay, cfg.Origin)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	petHandler := handlers.NewPetHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(bookingSvc)
	prescriptionHandler := handlers.NewPrescriptionHandler(bookingSvc)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc, cfg)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Gateway callbacks arrive as browser redirects without our JWT.
		paymentCallbacks := public.Group("/payment/esewa")
		{
			paymentCallbacks.GET("/success", paymentHandler.Success)
			paymentCallbacks.GET("/failure", paymentHandler.Failure)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User directory
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/vets", userHandler.GetVets)
			userRoutes.GET("/:id", userHandler.GetUserByID)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.PATCH("/:id/approve", userHandler.ApproveVet)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Pet routes
		petRoutes := private.Group("/pets")
		{
			petRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleUser, models.RoleAdmin), petHandler.CreatePet)
			petRoutes.GET("", petHandler.GetMyPets)
			petRoutes.GET("/:id", petHandler.GetPetByID)
			petRoutes.PUT("/:id", petHandler.UpdatePet)
			petRoutes.DELETE("/:id", petHandler.DeletePet)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleUser, models.RoleAdmin), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/time-slots", appointmentHandler.GetTimeSlots)
			appointmentRoutes.GET("/booked-times/:vetId/:date", appointmentHandler.GetBookedTimes)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)

			// Status + prescription in one operation, vet side.
			appointmentRoutes.PATCH("/:id/finish", middleware.RoleAuthMiddleware(models.RoleVet, models.RoleAdmin), appointmentHandler.FinishAppointment)
		}

		// Prescription history
		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.GET("/:appointmentId", prescriptionHandler.GetByAppointment)
		}

		// Payment initiation (redirect form) and status
		paymentRoutes := private.Group("/payment/esewa")
		{
			paymentRoutes.GET("/initiate/:id", paymentHandler.Initiate)
			paymentRoutes.GET("/status/:pid", paymentHandler.Status)
		}
	}

	// Video-consultation signaling channel. Authentication happens in-band
	// via register-identity; browsers cannot set headers on WebSocket dials.
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}

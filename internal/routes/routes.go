package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink-server/internal/auth"
	"campuslink-server/internal/config"
	"campuslink-server/internal/handlers"
	"campuslink-server/internal/middleware"
	"campuslink-server/internal/realtime"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, hub *realtime.Hub) {
	authenticator := auth.New(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	conversationHandler := handlers.NewConversationHandler(db)
	messageHandler := handlers.NewMessageHandler(db, hub)
	notificationHandler := handlers.NewNotificationHandler(db)
	rideHandler := handlers.NewRideHandler(db, hub)
	marketplaceHandler := handlers.NewMarketplaceHandler(db)
	teamFinderHandler := handlers.NewTeamFinderHandler(db, hub)
	tutorHandler := handlers.NewTutorHandler(db, hub)
	ventureHandler := handlers.NewVentureHandler(db)
	searchHandler := handlers.NewSearchHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(authenticator))
	{
		private.POST("/auth/logout", authHandler.Logout)

		// Profile routes
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/me", userHandler.Me)
			userRoutes.PATCH("/me", userHandler.UpdateMe)
			userRoutes.GET("/:userId", userHandler.GetUserByID)
		}

		// Chat routes
		conversationRoutes := private.Group("/conversations")
		{
			conversationRoutes.GET("", conversationHandler.ListConversations)
			conversationRoutes.POST("", conversationHandler.GetOrCreateConversation)
			conversationRoutes.DELETE("/:conversationId", conversationHandler.DeleteConversation)
			conversationRoutes.GET("/:conversationId/messages", messageHandler.ListMessages)
			conversationRoutes.POST("/:conversationId/messages", messageHandler.SendMessage)
		}
		private.DELETE("/messages/:messageId", messageHandler.DeleteMessage)
		private.GET("/chat/unread", messageHandler.UnreadConversationCount)

		// Notification routes
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.ListNotifications)
			notificationRoutes.GET("/unread", notificationHandler.UnreadNotificationCount)
			notificationRoutes.PATCH("/:notificationId", notificationHandler.MarkNotificationRead)
			notificationRoutes.DELETE("/:notificationId", notificationHandler.DeleteNotification)
		}

		// Ride-share routes
		rideRoutes := private.Group("/rides")
		{
			rideRoutes.GET("", rideHandler.ListRides)
			rideRoutes.POST("", rideHandler.CreateRide)
			rideRoutes.DELETE("", rideHandler.DeleteRide)
			rideRoutes.POST("/request", rideHandler.RequestRide)
			rideRoutes.DELETE("/request", rideHandler.CancelRideRequest)
		}

		// Marketplace routes
		marketplaceRoutes := private.Group("/marketplace")
		{
			marketplaceRoutes.GET("", marketplaceHandler.ListListings)
			marketplaceRoutes.POST("", marketplaceHandler.CreateListing)
			marketplaceRoutes.DELETE("", marketplaceHandler.DeleteListing)
		}

		// Team-finder routes
		teamRoutes := private.Group("/team-finder")
		{
			teamRoutes.GET("", teamFinderHandler.ListTeamPosts)
			teamRoutes.POST("", teamFinderHandler.CreateTeamPost)
			teamRoutes.DELETE("", teamFinderHandler.DeleteTeamPost)
			teamRoutes.POST("/request", teamFinderHandler.RequestToJoin)
			teamRoutes.DELETE("/request", teamFinderHandler.WithdrawRequest)
		}

		// Tutor routes
		tutorRoutes := private.Group("/tutors")
		{
			tutorRoutes.GET("", tutorHandler.ListTutors)
			tutorRoutes.POST("", tutorHandler.UpsertTutorProfile)
			tutorRoutes.DELETE("", tutorHandler.DeleteTutorProfile)
			tutorRoutes.POST("/request", tutorHandler.RequestTutor)
			tutorRoutes.DELETE("/request", tutorHandler.CancelTutorRequest)
		}

		// Venture routes
		ventureRoutes := private.Group("/ventures")
		{
			ventureRoutes.GET("", ventureHandler.ListVentures)
			ventureRoutes.POST("", ventureHandler.CreateVenture)
			ventureRoutes.PUT("", ventureHandler.UpdateVenture)
			ventureRoutes.DELETE("", ventureHandler.DeleteVenture)
		}

		// Global search
		private.GET("/search", searchHandler.Search)

		// Realtime push channel
		private.GET("/ws", func(c *gin.Context) {
			realtime.ServeWS(hub, c)
		})
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}

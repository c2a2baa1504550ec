package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pickpic-api/internal/blobstore"
	"github.com/yukikurage/pickpic-api/internal/config"
	"github.com/yukikurage/pickpic-api/internal/database"
	"github.com/yukikurage/pickpic-api/internal/handlers"
	"github.com/yukikurage/pickpic-api/internal/identity"
	"github.com/yukikurage/pickpic-api/internal/middleware"
	"github.com/yukikurage/pickpic-api/internal/repository"
	"github.com/yukikurage/pickpic-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Index creation checks pg_indexes, so it only runs on postgres
	if cfg.DBDriver == "postgres" {
		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize blob storage
	store, err := blobstore.NewGCSStore(context.Background(), cfg.GCSBucket)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	observers := repository.DefaultObservers()
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db, observers)
	membershipRepo := repository.NewMembershipRepository(db, observers)
	inviteRepo := repository.NewInviteLinkRepository(db)
	imageRepo := repository.NewImageRepository(db)
	scoreRepo := repository.NewScoreRepository(db, observers)

	// Initialize services
	verifier := identity.NewJWTVerifier(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, verifier, store, cfg.AutoProvision)
	eventService := services.NewEventService(eventRepo, store)
	membershipService := services.NewMembershipService(membershipRepo, eventRepo, userRepo)
	inviteService := services.NewInviteService(inviteRepo, membershipRepo, eventRepo, cfg.InviteBaseURL)
	imageService := services.NewImageService(imageRepo, eventRepo, scoreRepo, store)
	scoreService := services.NewScoreService(scoreRepo, imageRepo, eventRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService, membershipService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	imageHandler := handlers.NewImageHandler(imageService, eventService, scoreService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Pick-Pic API is running",
		})
	})

	requireAuth := middleware.RequireAuth(authService)

	// API routes
	api := r.Group("/api")
	{
		api.POST("/authenticate", authHandler.Authenticate)

		// Resolving a link needs no account; clients show the event before
		// sign-in. Joining does.
		api.GET("/events/join/:token", inviteHandler.ResolveInviteLink)

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/me", authHandler.GetCurrentUser)
			users.PATCH("/me", authHandler.UpdateCurrentUser)
			users.POST("/lookup", authHandler.LookupUsers)
			users.GET("/me/picture", authHandler.GetProfilePicture)
			users.PUT("/me/picture", authHandler.UploadProfilePicture)
		}

		// Event routes (protected)
		events := api.Group("/events")
		events.Use(requireAuth)
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.ListEvents)
			events.GET("/invitations", membershipHandler.ListInvitations)
			events.POST("/join/:token", inviteHandler.JoinViaLink)

			// Invitation responses run before membership exists, so they skip
			// the access middleware
			events.PUT("/:id/invitation/accept", membershipHandler.AcceptInvitation)
			events.DELETE("/:id/invitation/decline", membershipHandler.DeclineInvitation)

			member := events.Group("/:id")
			member.Use(middleware.RequireEventAccess())
			{
				member.GET("", eventHandler.GetEvent)
				member.PATCH("", middleware.RequireEventOwner(), eventHandler.RenameEvent)
				member.DELETE("", middleware.RequireEventOwner(), eventHandler.DeleteEvent)
				member.GET("/last-modified", eventHandler.LastModified)
				member.GET("/image-count", eventHandler.ImageCount)
				member.GET("/users", eventHandler.ListMembers)
				member.POST("/invite", membershipHandler.Invite)
				member.POST("/invite-link", inviteHandler.GenerateInviteLink)
				member.DELETE("/members/:user_id", membershipHandler.RemoveMember)

				member.POST("/images", imageHandler.Upload)
				member.GET("/images", imageHandler.ListContent)
				member.GET("/images/unranked", imageHandler.Unranked)
				member.GET("/images/top", imageHandler.TopImage)
				member.GET("/images/:image_id", imageHandler.Download)
				member.DELETE("/images/:image_id", imageHandler.RemoveContent)
				member.PUT("/images/:image_id/vote", imageHandler.Vote)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

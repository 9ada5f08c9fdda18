package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/clubhub/clubhub-api/internal/config"
	"github.com/clubhub/clubhub-api/internal/constants"
	"github.com/clubhub/clubhub-api/internal/database"
	"github.com/clubhub/clubhub-api/internal/handlers"
	"github.com/clubhub/clubhub-api/internal/logger"
	"github.com/clubhub/clubhub-api/internal/middleware"
	"github.com/clubhub/clubhub-api/internal/repository"
	"github.com/clubhub/clubhub-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

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

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	joinRepo := repository.NewJoinRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)
	noteRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	// Services
	auditService := services.NewAuditService(activityRepo)
	notificationService := services.NewNotificationService(noteRepo)
	authService := services.NewAuthService(userRepo, notificationService, auditService)
	sessionService := services.NewSessionService(sessionRepo)
	rateLimitService := services.NewRateLimitService(rateLimitRepo)
	permissionService := services.NewPermissionService(memberRepo, roleRepo, auditService)
	roleService := services.NewRoleService(roleRepo, memberRepo, permissionService, auditService)
	clubService := services.NewClubService(clubRepo, memberRepo, permissionService, auditService)
	membershipService := services.NewMembershipService(clubRepo, memberRepo, joinRepo, roleRepo, permissionService, notificationService, auditService)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(constants.SessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Middleware
	requireAuth := middleware.RequireAuth(sessionService, authService)
	requireCsrf := middleware.RequireCsrf(sessionService)
	requireClub := middleware.RequireClubAccess(clubRepo, memberRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, sessionService, rateLimitService)
	clubHandler := handlers.NewClubHandler(clubService, membershipService, permissionService)
	roleHandler := handlers.NewRoleHandler(roleService, permissionService)
	memberHandler := handlers.NewMemberHandler(membershipService, roleService)
	joinHandler := handlers.NewJoinRequestHandler(membershipService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Club Hub API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, requireCsrf, authHandler.Logout)
			auth.GET("/check", requireAuth, authHandler.Check)
			auth.POST("/change-password", requireAuth, requireCsrf, authHandler.ChangePassword)
		}

		// Club routes (protected)
		clubs := api.Group("/clubs")
		clubs.Use(requireAuth)
		{
			clubs.POST("", requireCsrf, clubHandler.CreateClub)
			clubs.GET("", clubHandler.ListMyClubs)
			clubs.GET("/:id", requireClub, clubHandler.GetClub)
			clubs.PUT("/:id", requireCsrf, requireClub, clubHandler.UpdateClub)
			clubs.POST("/:id/regenerate-code", requireCsrf, requireClub, clubHandler.RegenerateAccessCode)

			clubs.GET("/:id/members", requireClub, memberHandler.ListMembers)
			clubs.DELETE("/:id/members/:userId", requireCsrf, requireClub, memberHandler.RemoveMember)
			clubs.PUT("/:id/members/:userId/role", requireCsrf, requireClub, memberHandler.AssignRole)

			clubs.GET("/:id/roles", requireClub, roleHandler.ListRoles)
			clubs.POST("/:id/roles", requireCsrf, requireClub, roleHandler.CreateRole)
			clubs.GET("/:id/roles/:roleId", requireClub, roleHandler.GetRole)
			clubs.DELETE("/:id/roles/:roleId", requireCsrf, requireClub, roleHandler.DeleteRole)
			clubs.PUT("/:id/roles/:roleId/permissions", requireCsrf, requireClub, roleHandler.SetPermission)

			clubs.GET("/:id/join-requests", requireClub, joinHandler.ListPending)
		}

		// Join request routes (protected)
		joinRequests := api.Group("/join-requests")
		joinRequests.Use(requireAuth)
		{
			joinRequests.POST("", requireCsrf, joinHandler.RequestJoin)
			joinRequests.POST("/:requestId/approve", requireCsrf, joinHandler.Approve)
			joinRequests.POST("/:requestId/reject", requireCsrf, joinHandler.Reject)
		}

		// Permission catalogue (protected)
		api.GET("/permissions", requireAuth, roleHandler.Catalogue)

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListUnread)
			notifications.POST("/:notificationId/read", requireCsrf, notificationHandler.MarkRead)
		}
	}

	// Start server
	logger.Info("server starting", "addr", ":8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

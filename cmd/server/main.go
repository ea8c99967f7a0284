package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/daoforge/governance-api/internal/config"
	"github.com/daoforge/governance-api/internal/constants"
	"github.com/daoforge/governance-api/internal/database"
	"github.com/daoforge/governance-api/internal/handlers"
	"github.com/daoforge/governance-api/internal/middleware"
	"github.com/daoforge/governance-api/internal/repository"
	"github.com/daoforge/governance-api/internal/services"
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
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Wire repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	seqRepo := repository.NewSequenceRepository(db)

	membership := services.NewMembershipService(orgRepo)
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo, userRepo, seqRepo, membership)
	proposalService := services.NewProposalService(proposalRepo, orgRepo, seqRepo, membership)
	commentService := services.NewCommentService(commentRepo, proposalRepo, seqRepo, membership)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	proposalHandler := handlers.NewProposalHandler(proposalService, aiService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Governance API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)
			orgs.GET("/:id", orgHandler.GetOrganization)
			orgs.PUT("/:id", orgHandler.UpdateOrganization)
			orgs.DELETE("/:id", orgHandler.DeleteOrganization)
			orgs.POST("/:id/regenerate-code", orgHandler.RegenerateInviteCode)
			orgs.POST("/:id/members", orgHandler.AddMember)
			orgs.DELETE("/:id/members/:user_id", orgHandler.RemoveMember)
		}

		// Proposal routes (protected)
		proposals := api.Group("/proposals")
		proposals.Use(middleware.RequireAuth())
		{
			proposals.POST("", proposalHandler.CreateProposal)
			proposals.GET("", proposalHandler.ListProposals)
			proposals.GET("/approved", proposalHandler.ListApprovedProposals)
			proposals.POST("/draft", proposalHandler.DraftProposals)
			proposals.GET("/:id", proposalHandler.GetProposal)
			proposals.PUT("/:id", proposalHandler.UpdateProposal)
			proposals.POST("/:id/upvote", proposalHandler.UpvoteProposal)
			proposals.POST("/:id/downvote", proposalHandler.DownvoteProposal)
			proposals.POST("/:id/finalize", proposalHandler.EndProposalVote)
			proposals.DELETE("/:id", proposalHandler.DeleteProposal)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.POST("", commentHandler.CreateComment)
			comments.GET("", commentHandler.ListComments)
			comments.PUT("/:id", commentHandler.UpdateComment)
			comments.POST("/:id/like", commentHandler.LikeComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

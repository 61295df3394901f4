package app

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"devhoc/internal/config"
	"devhoc/internal/middleware"
	"devhoc/internal/model"
	"devhoc/internal/repository"
	"devhoc/internal/service"
	"devhoc/internal/util"
	ws "devhoc/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewRouter builds the database, cache, broker and every layer above them,
// returning the ready-to-run gin engine.
func NewRouter(cfg *config.Config) (*gin.Engine, error) {
	db, err := initDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	// Redis is optional; repositories fall back to the database when nil
	redisClient := initRedis(cfg)

	// RabbitMQ is optional; notifications are delivered inline when nil
	rabbitClient := initRabbitMQ(cfg)

	cloudinaryClient, err := util.NewCloudinaryClient(cfg)
	if err != nil {
		log.Printf("Cloudinary disabled: %v", err)
		cloudinaryClient = nil
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db, redisClient)
	reactionRepo := repository.NewReactionRepository(db, redisClient)
	voteRepo := repository.NewVoteRepository(db, redisClient)
	followRepo := repository.NewFollowRepository(db, redisClient)
	teamRepo := repository.NewTeamRepository(db, redisClient)
	notificationRepo := repository.NewNotificationRepository(db, redisClient)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, rabbitClient)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	userService := service.NewUserService(userRepo, followRepo)
	postService := service.NewPostService(postRepo, commentRepo, reactionRepo, voteRepo, followRepo, teamRepo, cloudinaryClient)
	commentService := service.NewCommentService(commentRepo, postRepo, notificationService)
	reactionService := service.NewReactionService(reactionRepo, postRepo, commentRepo, notificationService)
	voteService := service.NewVoteService(voteRepo, postRepo, commentRepo, notificationService)
	followService := service.NewFollowService(followRepo, userRepo, notificationService)
	teamService := service.NewTeamService(teamRepo, notificationService)

	// WebSocket hub feeds real-time notification pushes
	hub := ws.NewHub()
	go hub.Run()
	notificationService.SetWSHub(hub)

	// Worker drains the notification queue
	service.NewNotificationWorker(rabbitClient, notificationService).Start()

	// Handlers
	authHandler := NewAuthHandler(authService, cfg.JWTSecret)
	userHandler := NewUserHandler(userService, postService, teamService)
	postHandler := NewPostHandler(postService, commentService)
	commentHandler := NewCommentHandler(commentService)
	reactionHandler := NewReactionHandler(reactionService)
	voteHandler := NewVoteHandler(voteService)
	followHandler := NewFollowHandler(followService)
	teamHandler := NewTeamHandler(teamService, postService)
	notificationHandler := NewNotificationHandler(notificationService)
	wsHandler := NewWSHandler(hub, []string{cfg.ClientURL})

	registerValidators()

	router := gin.Default()
	router.Use(corsMiddleware(cfg.ClientURL))

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		router.Use(limiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ws", authHandler.AuthMiddleware(), wsHandler.Serve)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", authHandler.AuthMiddleware(), authHandler.Me)
		auth.DELETE("/me", authHandler.AuthMiddleware(), authHandler.DeleteAccount)
	}

	users := api.Group("/users")
	{
		users.GET("/search", userHandler.Search)
		users.PUT("/me", authHandler.AuthMiddleware(), userHandler.UpdateProfile)
		users.GET("/:username", authHandler.OptionalAuthMiddleware(), userHandler.GetProfile)
		users.GET("/:username/posts", userHandler.GetPosts)
		users.GET("/:username/teams", userHandler.GetTeams)
	}

	posts := api.Group("/posts")
	{
		posts.GET("/feed", authHandler.OptionalAuthMiddleware(), postHandler.Feed)
		posts.GET("/search", postHandler.Search)
		posts.GET("/slug/:slug", authHandler.OptionalAuthMiddleware(), postHandler.GetBySlug)
		posts.GET("/:id", authHandler.OptionalAuthMiddleware(), postHandler.GetByID)
		posts.GET("/:id/comments", postHandler.GetComments)
		posts.POST("", authHandler.AuthMiddleware(), postHandler.Create)
		posts.PUT("/:id", authHandler.AuthMiddleware(), postHandler.Update)
		posts.DELETE("/:id", authHandler.AuthMiddleware(), postHandler.Delete)
		posts.POST("/:id/cover", authHandler.AuthMiddleware(), postHandler.UploadCover)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:id", commentHandler.GetByID)
		comments.GET("/:id/replies", commentHandler.GetReplies)
		comments.POST("", authHandler.AuthMiddleware(), commentHandler.Create)
		comments.PUT("/:id", authHandler.AuthMiddleware(), commentHandler.Update)
		comments.DELETE("/:id", authHandler.AuthMiddleware(), commentHandler.Delete)
	}

	reactions := api.Group("/reactions")
	{
		reactions.GET("/:targetType/:targetId", authHandler.OptionalAuthMiddleware(), reactionHandler.GetAggregate)
		reactions.POST("/toggle", authHandler.AuthMiddleware(), reactionHandler.Toggle)
	}

	votes := api.Group("/votes")
	{
		votes.GET("/:targetType/:targetId", authHandler.OptionalAuthMiddleware(), voteHandler.GetTally)
		votes.POST("/toggle", authHandler.AuthMiddleware(), voteHandler.Toggle)
	}

	follows := api.Group("/follows")
	{
		follows.GET("/:userId/followers", followHandler.GetFollowers)
		follows.GET("/:userId/following", followHandler.GetFollowing)
		follows.POST("/:userId", authHandler.AuthMiddleware(), followHandler.Follow)
		follows.DELETE("/:userId", authHandler.AuthMiddleware(), followHandler.Unfollow)
	}

	teams := api.Group("/teams")
	{
		teams.GET("", teamHandler.List)
		teams.GET("/slug/:slug", teamHandler.GetBySlug)
		teams.GET("/:id", teamHandler.GetByID)
		teams.GET("/:id/posts", teamHandler.GetPosts)
		teams.GET("/:id/members", teamHandler.GetMembers)
		teams.POST("", authHandler.AuthMiddleware(), teamHandler.Create)
		teams.PUT("/:id", authHandler.AuthMiddleware(), teamHandler.Update)
		teams.DELETE("/:id", authHandler.AuthMiddleware(), teamHandler.Delete)
		teams.POST("/:id/join", authHandler.AuthMiddleware(), teamHandler.Join)
		teams.POST("/:id/leave", authHandler.AuthMiddleware(), teamHandler.Leave)
		teams.PUT("/:id/members/:userId", authHandler.AuthMiddleware(), teamHandler.UpdateMemberRole)
		teams.DELETE("/:id/members/:userId", authHandler.AuthMiddleware(), teamHandler.RemoveMember)
	}

	notifications := api.Group("/notifications", authHandler.AuthMiddleware())
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread", notificationHandler.UnreadCount)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}

	return router, nil
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
			cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Team{},
		&model.TeamMember{},
		&model.Post{},
		&model.Comment{},
		&model.Reaction{},
		&model.Vote{},
		&model.Follow{},
		&model.Notification{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migrated")
	return db, nil
}

// initRedis connects with retries so a slow-starting cache container does
// not take the API down
func initRedis(cfg *config.Config) *util.RedisClient {
	var client *util.RedisClient
	var err error

	for attempt, wait := 1, time.Second; attempt <= 3; attempt, wait = attempt+1, wait*2 {
		client, err = util.NewRedisClient(cfg)
		if err == nil {
			log.Println("Redis connected")
			return client
		}
		log.Printf("Redis connection attempt %d failed: %v", attempt, err)
		time.Sleep(wait)
	}

	log.Println("Running without Redis cache")
	return nil
}

func initRabbitMQ(cfg *config.Config) *util.RabbitMQClient {
	var client *util.RabbitMQClient
	var err error

	for attempt, wait := 1, time.Second; attempt <= 3; attempt, wait = attempt+1, wait*2 {
		client, err = util.NewRabbitMQClient(cfg)
		if err == nil {
			log.Println("RabbitMQ connected")
			return client
		}
		log.Printf("RabbitMQ connection attempt %d failed: %v", attempt, err)
		time.Sleep(wait)
	}

	log.Println("Running without RabbitMQ, notifications delivered inline")
	return nil
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == clientURL {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

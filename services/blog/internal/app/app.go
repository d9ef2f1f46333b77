package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/cache"
	"github.com/PhucHuuDang/GraphQL/pkg/config"
	"github.com/PhucHuuDang/GraphQL/pkg/database"
	"github.com/PhucHuuDang/GraphQL/pkg/jwt"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/middleware"
	"github.com/PhucHuuDang/GraphQL/pkg/queue"
	"github.com/PhucHuuDang/GraphQL/pkg/s3"
	blogGraphQL "github.com/PhucHuuDang/GraphQL/services/blog/internal/controller/graphql"
	blogHTTP "github.com/PhucHuuDang/GraphQL/services/blog/internal/controller/http"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/repo/persistent"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/PhucHuuDang/GraphQL/services/blog/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	cache       cache.Cache
	publisher   queue.Publisher
	storage     s3.Storage
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, JSON: cfg.IsProduction()})

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	app := &App{cfg: cfg, log: log, db: db}

	// Redis backs sessions, view dedupe and rate limits; without it an
	// in-process cache keeps a single instance working.
	app.cache = cache.NewMemory()
	if cfg.RedisConfigured() {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("Failed to connect to redis: %v (falling back to in-memory cache)", err)
		} else {
			app.redisClient = redisClient
			app.cache = cache.NewRedis(redisClient)
		}
	}

	app.publisher, err = queue.NewPublisher(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		app.publisher = queue.NewNopPublisher(log)
	}

	if cfg.StorageConfigured() {
		s3Client, err := s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v", err)
			return nil, err
		}
		app.storage = s3Client
	} else {
		log.Info("S3 storage not configured, image uploads are disabled")
	}

	secret := cfg.AuthSecret
	if secret == "" {
		log.Warn("AUTH_SECRET not set, using a random secret; OAuth state will not survive a restart")
		secret = uuid.NewString()
	}
	app.jwtService = jwt.NewService(secret)

	return app, nil
}

// router wires repositories, use cases and handlers onto a gin engine.
func (a *App) router() (*gin.Engine, error) {
	// Initialize repositories
	postRepo := persistent.NewPostRepository(a.db)
	userRepo := persistent.NewUserRepository(a.db)
	categoryRepo := persistent.NewCategoryRepository(a.db)

	// Initialize use cases
	postUseCase := usecase.NewPostUseCase(postRepo, categoryRepo, a.cache, a.publisher, a.log.With("component", "posts"))
	authUseCase := usecase.NewAuthUseCase(userRepo, a.cache, a.jwtService, usecase.NewGitHubProvider(a.cfg), a.cfg.FrontendURL, a.log.With("component", "auth"))
	authorUseCase := usecase.NewAuthorUseCase(userRepo, a.log.With("component", "authors"))
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo)
	mediaUseCase := usecase.NewMediaUseCase(a.storage, a.log.With("component", "media"))

	// Initialize handlers
	cookie := blogHTTP.SessionCookie{Name: a.cfg.CookieName(), Production: a.cfg.IsProduction()}
	resolver := blogGraphQL.NewResolver(postUseCase, authUseCase, authorUseCase, categoryUseCase, cookie, a.log)
	schema, err := blogGraphQL.NewSchema(resolver)
	if err != nil {
		return nil, err
	}
	graphqlHandler := blogGraphQL.NewHandler(schema, a.log.With("component", "graphql"))
	authHandler := blogHTTP.NewAuthHandler(authUseCase, cookie, a.log)
	uploadHandler := blogHTTP.NewUploadHandler(mediaUseCase, a.log)

	r := gin.New()
	if err := blogHTTP.TrustProxies(r, a.cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	r.Use(middleware.Recovery(a.log))
	r.Use(middleware.RequestLogger(a.log))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{a.cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("")
	api.Use(middleware.SessionMiddleware(authUseCase, a.cfg.CookieName(), a.log))
	api.Use(middleware.RateLimitMiddleware(a.cache, a.cfg.RateLimitPerMinute, time.Minute, a.log.With("component", "rate_limit")))
	{
		api.POST("/graphql", graphqlHandler.Serve)
		api.GET("/graphql", graphqlHandler.Serve)

		api.GET("/social/github", authHandler.GitHubRedirect)
		api.GET("/api/auth/callback/:provider", authHandler.OAuthCallback)

		api.POST("/api/v1/uploads", middleware.RequireAuth(), uploadHandler.UploadImage)
	}

	return r, nil
}

func (a *App) Run() error {
	r, err := a.router()
	if err != nil {
		return err
	}

	a.httpServer = &http.Server{
		Addr:    a.cfg.Addr(),
		Handler: r,
	}

	go func() {
		a.log.Info("Blog service starting on %s", a.cfg.Addr())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down blog service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if err := a.publisher.Close(); err != nil {
		a.log.Error("Error closing RabbitMQ: %v", err)
	}

	a.log.Info("Blog service exited")
	return shutdownErr
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"stockdesk/internal/config"
	custommiddleware "stockdesk/internal/middleware"
	"stockdesk/internal/repository"
	"stockdesk/internal/service"
	"stockdesk/internal/session"
	"stockdesk/internal/store"
	"stockdesk/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *store.Store
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, st *store.Store, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            time.Duration(cfg.RateLimit.Window) * time.Second,
		KeyPrefix:         "ratelimit",
	}, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := st.Health(r.Context())
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Repositories
	productRepo := repository.NewProductRepository(st, logger)
	categoryRepo := repository.NewCategoryRepository(st)
	brandRepo := repository.NewBrandRepository(st)
	unitRepo := repository.NewUnitRepository(st)
	userRepo := repository.NewUserRepository(st.DB())
	refreshTokenRepo := repository.NewRefreshTokenRepository(st.DB())

	// Services
	sessions := session.NewStore(redisClient, time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour)
	authService := service.NewAuthService(
		userRepo,
		refreshTokenRepo,
		sessions,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour,
	)

	// Handlers
	authHandler := transport.NewAuthHandler(authService, userRepo, logger)
	productHandler := transport.NewProductHandler(productRepo, logger)
	taxonomyHandler := transport.NewTaxonomyHandler(categoryRepo, brandRepo, unitRepo, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	authHandler.RegisterRoutes(router, authMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware)
	taxonomyHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  st,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close catalog store", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

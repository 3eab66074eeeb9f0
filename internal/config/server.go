package config

import (
	"ProjectFinance/database/postgres"
	financeHandler "ProjectFinance/internal/api/finance/handler"
	financeRepository "ProjectFinance/internal/api/finance/repository"
	financeService "ProjectFinance/internal/api/finance/service"
	"ProjectFinance/internal/middleware"
	"ProjectFinance/pkg/redis"
	"ProjectFinance/pkg/utils"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	storeDriver string
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	translator  ut.Translator
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	cacheTTL    time.Duration
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	if server.storeDriver == "" {
		return nil, fmt.Errorf("record store is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate, translator ut.Translator) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		s.translator = translator
		return nil
	}
}

// WithDatabase selects the record store from STORE_DRIVER. The postgres
// driver connects and applies the schema; memory keeps records in process.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		driver := os.Getenv("STORE_DRIVER")
		if driver == "" {
			driver = StoreDriverPostgres
		}

		switch driver {
		case StoreDriverMemory:
			s.storeDriver = driver
			return nil
		case StoreDriverPostgres:
		default:
			return fmt.Errorf("unknown STORE_DRIVER %q", driver)
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}

		s.db = db
		s.storeDriver = driver
		return nil
	}
}

// WithRedisServer enables the stats cache. Entries live for
// FINANCE_CACHE_TTL_SECONDS, five minutes by default.
func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		s.cacheTTL = 5 * time.Minute
		if ttl, err := strconv.Atoi(os.Getenv("FINANCE_CACHE_TTL_SECONDS")); err == nil && ttl > 0 {
			s.cacheTTL = time.Duration(ttl) * time.Second
		}
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) newFinanceRepository() financeRepository.Repository {
	if s.storeDriver == StoreDriverMemory {
		return financeRepository.NewMemory(s.log)
	}
	return financeRepository.New(s.db, s.log)
}

func (s *Server) RegisterHandler() {
	financeRepo := s.newFinanceRepository()
	financeServices := financeService.NewFinanceService(s.log, financeRepo, s.redisServer, s.cacheTTL, s.utils)
	financeHandlers := financeHandler.New(s.log, s.validator, s.translator, s.middleware, financeServices)

	s.handlers = append(s.handlers, financeHandlers)
}

func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.setupHealthCheck()
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	s.mount()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops the listener and releases the store and cache connections.
func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()

	if s.db != nil {
		if dbErr := s.db.Close(); dbErr != nil {
			s.log.Errorf("Failed to close database: %v", dbErr)
		}
	}
	if s.redisServer != nil {
		if redisErr := s.redisServer.Close(); redisErr != nil {
			s.log.Errorf("Failed to close redis: %v", redisErr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"store":   s.storeDriver,
		})
	})
}

package config

import (
	"fmt"

	"CrowdMonitor/internal/api/crowd"
	crowdHandler "CrowdMonitor/internal/api/crowd/handler"
	crowdService "CrowdMonitor/internal/api/crowd/service"
	"CrowdMonitor/internal/middleware"
	"CrowdMonitor/pkg/redis"
	"CrowdMonitor/pkg/smtp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	cfg         AppConfig
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	handlers    []handler
	redisServer redis.IRedis
	smtpMailer  smtp.ItfSmtp
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{cfg: DefaultAppConfig()}

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
		server.validator = NewValidator()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.cfg.RateLimit, server.cfg.RateBurst)
	}
	if server.redisServer == nil {
		server.redisServer = redis.New(redis.Config{})
	}
	if server.smtpMailer == nil {
		server.smtpMailer = smtp.New(smtp.Config{})
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithAppConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.cfg.RateLimit, s.cfg.RateBurst)
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	// Crowd Domain
	crowdServices, err := crowdService.New(s.log, crowdService.Config{
		ConnectTimeout:  s.cfg.CameraConnectTimeout,
		ReadTimeout:     s.cfg.CameraReadTimeout,
		SnapshotTimeout: s.cfg.SnapshotTimeout,
		StreamTimeout:   s.cfg.StreamTimeout,
		ProbeTimeout:    s.cfg.ProbeTimeout,
		MaxFrameSize:    s.cfg.MaxFrameSize,
		PreviewMaxWidth: s.cfg.PreviewMaxWidth,
		PreviewQuality:  s.cfg.PreviewQuality,
		ProbeCacheTTL:   s.cfg.ProbeCacheTTL,
	}, s.redisServer, s.smtpMailer)
	if err != nil {
		return fmt.Errorf("failed to create crowd service: %w", err)
	}

	crowdHandlers := crowdHandler.New(s.log, s.validator, s.middleware, crowdServices, crowdHandler.Config{
		AnalyzeTimeout:    s.cfg.AnalyzeTimeout,
		SnapshotTimeout:   s.cfg.SnapshotTimeout,
		LiveInterval:      s.cfg.LiveInterval,
		StreamIdleTimeout: s.cfg.StreamTimeout,
	})

	s.handlers = append(s.handlers, crowdHandlers)
	s.mount()

	return nil
}

func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) Run() error {
	s.log.WithFields(logrus.Fields{
		"address":      s.cfg.Address(),
		"smtp_enabled": s.smtpMailer.Enabled(),
		"redis":        s.cfg.RedisAddress != "",
	}).Info("Starting Crowd Management System")

	return s.engine.Listen(s.cfg.Address())
}

func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()
	if cerr := s.redisServer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(crowd.HealthResponse{
			Status: "healthy",
			Server: s.cfg.AppName,
		})
	})
}

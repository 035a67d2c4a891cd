package crowdHandler

import (
	"time"

	crowdService "CrowdMonitor/internal/api/crowd/service"
	"CrowdMonitor/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type Config struct {
	AnalyzeTimeout  time.Duration
	SnapshotTimeout time.Duration
	LiveInterval    time.Duration

	// StreamIdleTimeout closes a /video relay whose camera sends nothing for this long.
	StreamIdleTimeout time.Duration
}

type CrowdHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	crowdService crowdService.ICrowdService
	cfg          Config
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs crowdService.ICrowdService,
	cfg Config,
) *CrowdHandler {
	if cfg.AnalyzeTimeout <= 0 {
		cfg.AnalyzeTimeout = 20 * time.Second
	}
	if cfg.SnapshotTimeout <= 0 {
		cfg.SnapshotTimeout = 10 * time.Second
	}
	if cfg.StreamIdleTimeout <= 0 {
		cfg.StreamIdleTimeout = 30 * time.Second
	}
	if cfg.LiveInterval < minLiveInterval {
		cfg.LiveInterval = defaultLiveInterval
	}

	return &CrowdHandler{
		crowdService: cs,
		log:          log,
		validator:    validator,
		middleware:   middleware,
		cfg:          cfg,
	}
}

func (h *CrowdHandler) Start(srv fiber.Router) {
	api := srv.Group("/api")
	api.Post("/analyze", h.middleware.NewRateLimiter, h.Analyze)
	api.Post("/report", h.middleware.NewRateLimiter, h.SendReport)

	api.Use("/live/ws", h.upgradeLive)
	api.Get("/live/ws", websocket.New(h.handleLiveWebSocket))

	srv.Get("/probe", h.middleware.NewRateLimiter, h.Probe)
	srv.Get("/snapshot", h.Snapshot)
	srv.Get("/video", h.Video)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig is every tunable of the service, read once at start-up.
type AppConfig struct {
	AppName string
	Host    string
	Port    string

	LogLevel string
	LogDir   string

	CameraConnectTimeout time.Duration
	CameraReadTimeout    time.Duration
	SnapshotTimeout      time.Duration
	StreamTimeout        time.Duration
	ProbeTimeout         time.Duration
	AnalyzeTimeout       time.Duration

	MaxFrameSize    int
	PreviewMaxWidth int
	PreviewQuality  int
	LiveInterval    time.Duration

	RateLimit float64
	RateBurst int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	ProbeCacheTTL time.Duration
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		AppName:              "Crowd Management System",
		Host:                 "0.0.0.0",
		Port:                 "5000",
		LogLevel:             "debug",
		LogDir:               "./storage/logs",
		CameraConnectTimeout: 5 * time.Second,
		CameraReadTimeout:    15 * time.Second,
		SnapshotTimeout:      10 * time.Second,
		StreamTimeout:        30 * time.Second,
		ProbeTimeout:         6 * time.Second,
		AnalyzeTimeout:       20 * time.Second,
		MaxFrameSize:         8 * 1024 * 1024,
		PreviewMaxWidth:      960,
		PreviewQuality:       80,
		LiveInterval:         5 * time.Second,
		RateLimit:            5,
		RateBurst:            10,
		SMTPHost:             "smtp.gmail.com",
		SMTPPort:             587,
		ProbeCacheTTL:        10 * time.Minute,
	}
}

// LoadAppConfig overlays environment variables on the defaults. Malformed
// numbers and durations are reported instead of silently ignored.
func LoadAppConfig() (AppConfig, error) {
	cfg := DefaultAppConfig()
	env := envReader{}

	env.str("APP_NAME", &cfg.AppName)
	env.str("APP_HOST", &cfg.Host)
	env.str("APP_PORT", &cfg.Port)
	env.str("LOG_LEVEL", &cfg.LogLevel)
	env.str("LOG_DIR", &cfg.LogDir)

	env.duration("CAMERA_CONNECT_TIMEOUT", &cfg.CameraConnectTimeout)
	env.duration("CAMERA_READ_TIMEOUT", &cfg.CameraReadTimeout)
	env.duration("SNAPSHOT_TIMEOUT", &cfg.SnapshotTimeout)
	env.duration("STREAM_TIMEOUT", &cfg.StreamTimeout)
	env.duration("PROBE_TIMEOUT", &cfg.ProbeTimeout)
	env.duration("ANALYZE_TIMEOUT", &cfg.AnalyzeTimeout)

	env.integer("MAX_FRAME_SIZE", &cfg.MaxFrameSize)
	env.integer("PREVIEW_MAX_WIDTH", &cfg.PreviewMaxWidth)
	env.integer("PREVIEW_QUALITY", &cfg.PreviewQuality)
	env.duration("LIVE_INTERVAL", &cfg.LiveInterval)

	env.float("RATE_LIMIT", &cfg.RateLimit)
	env.integer("RATE_BURST", &cfg.RateBurst)

	env.str("SMTP_HOST", &cfg.SMTPHost)
	env.integer("SMTP_PORT", &cfg.SMTPPort)
	env.str("SMTP_MAIL", &cfg.SMTPUser)
	env.str("SMTP_PASSWORD", &cfg.SMTPPassword)

	env.str("REDIS_ADDRESS", &cfg.RedisAddress)
	env.str("REDIS_PASSWORD", &cfg.RedisPassword)
	env.integer("REDIS_DB", &cfg.RedisDB)
	env.duration("PROBE_CACHE_TTL", &cfg.ProbeCacheTTL)

	if env.err != nil {
		return AppConfig{}, env.err
	}
	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	switch {
	case c.MaxFrameSize <= 0:
		return fmt.Errorf("MAX_FRAME_SIZE must be positive, got %d", c.MaxFrameSize)
	case c.PreviewQuality < 1 || c.PreviewQuality > 100:
		return fmt.Errorf("PREVIEW_QUALITY must be within 1..100, got %d", c.PreviewQuality)
	case c.LiveInterval < time.Second:
		return fmt.Errorf("LIVE_INTERVAL must be at least 1s, got %s", c.LiveInterval)
	case c.RateLimit <= 0 || c.RateBurst <= 0:
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must be positive")
	case c.AnalyzeTimeout <= 0:
		return fmt.Errorf("ANALYZE_TIMEOUT must be positive")
	}
	return nil
}

func (c AppConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// envReader keeps the first parse error so callers can check once.
type envReader struct {
	err error
}

func (r *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

func (r *envReader) str(key string, dst *string) {
	if v, ok := r.lookup(key); ok {
		*dst = v
	}
}

func (r *envReader) integer(key string, dst *int) {
	v, ok := r.lookup(key)
	if !ok || r.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.err = fmt.Errorf("%s: invalid integer %q", key, v)
		return
	}
	*dst = n
}

func (r *envReader) float(key string, dst *float64) {
	v, ok := r.lookup(key)
	if !ok || r.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.err = fmt.Errorf("%s: invalid number %q", key, v)
		return
	}
	*dst = f
}

func (r *envReader) duration(key string, dst *time.Duration) {
	v, ok := r.lookup(key)
	if !ok || r.err != nil {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.err = fmt.Errorf("%s: invalid duration %q", key, v)
		return
	}
	*dst = d
}

package crowdService

import (
	"context"
	"time"

	"CrowdMonitor/internal/api/crowd"
	"CrowdMonitor/pkg/camera"
	"CrowdMonitor/pkg/density"
	"CrowdMonitor/pkg/mjpeg"
	"CrowdMonitor/pkg/redis"
	"CrowdMonitor/pkg/smtp"

	"github.com/sirupsen/logrus"
)

type ICrowdService interface {
	Analyze(ctx context.Context, cameraURL string) (*crowd.AnalysisResult, error)
	SendReport(ctx context.Context, cameraURL string, email string) (*crowd.AnalysisResult, error)
	Probe(ctx context.Context, cameraURL string) (*crowd.ProbeResponse, error)
	Snapshot(ctx context.Context, cameraURL string) (*crowd.Snapshot, error)
	OpenStream(ctx context.Context, cameraURL string) (*camera.Response, error)
}

type Config struct {
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
	SnapshotTimeout time.Duration
	StreamTimeout   time.Duration
	ProbeTimeout    time.Duration
	MaxFrameSize    int
	PreviewMaxWidth int
	PreviewQuality  int
	ProbeCacheTTL   time.Duration
}

func DefaultConfig() Config {
	return Config{
		ConnectTimeout:  camera.DefaultConnectTimeout,
		ReadTimeout:     camera.DefaultReadTimeout,
		SnapshotTimeout: 10 * time.Second,
		StreamTimeout:   30 * time.Second,
		ProbeTimeout:    camera.DefaultProbeTimeout,
		MaxFrameSize:    mjpeg.DefaultMaxFrameSize,
		PreviewMaxWidth: 960,
		PreviewQuality:  80,
		ProbeCacheTTL:   10 * time.Minute,
	}
}

type crowdService struct {
	log       *logrus.Logger
	cfg       Config
	estimator *density.Estimator
	analyze   *camera.Client
	snapshot  *camera.Client
	stream    *camera.Client
	cache     redis.IRedis
	mailer    smtp.ItfSmtp
}

func New(
	log *logrus.Logger,
	cfg Config,
	cache redis.IRedis,
	mailer smtp.ItfSmtp,
) (ICrowdService, error) {
	estimator, err := density.New(density.Advanced)
	if err != nil {
		return nil, err
	}

	return &crowdService{
		log:       log,
		cfg:       cfg,
		estimator: estimator,
		analyze: camera.NewClient(camera.Config{
			ConnectTimeout: cfg.ConnectTimeout,
			ReadTimeout:    cfg.ReadTimeout,
			HeaderTimeout:  cfg.ReadTimeout,
		}),
		snapshot: camera.NewClient(camera.Config{
			ConnectTimeout: cfg.ConnectTimeout,
			ReadTimeout:    cfg.SnapshotTimeout,
			HeaderTimeout:  cfg.SnapshotTimeout,
		}),
		stream: camera.NewClient(camera.Config{
			ConnectTimeout: cfg.ConnectTimeout,
			HeaderTimeout:  cfg.StreamTimeout,
		}),
		cache:  cache,
		mailer: mailer,
	}, nil
}

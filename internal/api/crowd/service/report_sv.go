package crowdService

import (
	"context"
	"errors"
	"fmt"

	"CrowdMonitor/internal/api/crowd"
	"CrowdMonitor/pkg/density"
	"CrowdMonitor/pkg/log"
	"CrowdMonitor/pkg/smtp"
)

func (s *crowdService) SendReport(ctx context.Context, cameraURL string, email string) (*crowd.AnalysisResult, error) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return nil, crowd.ErrNotifierDisabled
	}

	result, err := s.Analyze(ctx, cameraURL)
	if err != nil {
		return nil, err
	}

	rounded := result.Record.Rounded()
	report := smtp.CrowdReport{
		CameraURL:   cameraURL,
		Count:       rounded.Count,
		Density:     rounded.FormatDensity(),
		FreeSpace:   rounded.FormatFreeSpace(),
		Status:      string(rounded.Status),
		HighCrowd:   rounded.Status == density.StatusHighCrowd,
		GeneratedAt: result.AnalyzedAt,
	}

	if err := s.mailer.SendCrowdReport(email, report); err != nil {
		if errors.Is(err, smtp.ErrDisabled) {
			return nil, crowd.ErrNotifierDisabled
		}
		return nil, fmt.Errorf("%w: %v", crowd.ErrSendReport, err)
	}

	s.log.WithFields(log.Fields{
		"camera_url": cameraURL,
		"status":     rounded.Status,
		"density":    rounded.Density,
	}).Info("Crowd report sent")

	return result, nil
}

package crowdService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"CrowdMonitor/internal/api/crowd"
	"CrowdMonitor/pkg/camera"
	"CrowdMonitor/pkg/density"
	"CrowdMonitor/pkg/imaging"
	"CrowdMonitor/pkg/log"
	"CrowdMonitor/pkg/mjpeg"
	"CrowdMonitor/pkg/response"
)

func (s *crowdService) Analyze(ctx context.Context, cameraURL string) (*crowd.AnalysisResult, error) {
	if cameraURL == "" {
		return nil, crowd.ErrMissingInput
	}

	resp, err := s.analyze.Open(ctx, cameraURL)
	if err != nil {
		return nil, mapUpstreamError(err)
	}
	frame, err := s.readFrame(ctx, resp)
	_ = resp.Close()
	if err != nil {
		return nil, mapUpstreamError(err)
	}

	s.log.WithFields(log.Fields{
		"camera_url":   resp.URL,
		"content_type": resp.ContentType,
		"frame_size":   len(frame),
	}).Debug("Fetched camera frame")

	img, _, err := imaging.Decode(frame)
	if err != nil {
		detail := crowd.DecodeFailureDetail{ContentType: resp.ContentType, Size: len(frame)}
		return nil, fmt.Errorf("%w: %v", response.WithDetail(crowd.ErrDecodeFailure, detail), err)
	}

	record, err := s.estimator.Estimate(img)
	if err != nil {
		detail := crowd.DecodeFailureDetail{ContentType: resp.ContentType, Size: len(frame)}
		return nil, fmt.Errorf("%w: %v", response.WithDetail(crowd.ErrDecodeFailure, detail), err)
	}

	s.log.WithFields(log.Fields{
		"camera_url": resp.URL,
		"policy":     s.estimator.Policy().Name,
		"count":      record.Count,
		"density":    record.Density,
		"status":     record.Status,
	}).Debug("Estimated crowd density")

	preview, err := imaging.EncodePreview(img, s.cfg.PreviewMaxWidth, s.cfg.PreviewQuality)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}

	return &crowd.AnalysisResult{
		CameraURL:   cameraURL,
		ContentType: resp.ContentType,
		FrameSize:   len(frame),
		Record:      record,
		Summary:     Summarize(record),
		Preview:     imaging.DataURI("image/jpeg", preview),
		AnalyzedAt:  time.Now(),
	}, nil
}

// readFrame pulls one still out of resp: the first part of a multipart
// stream, or the whole body otherwise. Both are capped at MaxFrameSize.
func (s *crowdService) readFrame(ctx context.Context, resp *camera.Response) ([]byte, error) {
	if mjpeg.IsMultipart(resp.ContentType) {
		boundary, err := mjpeg.ParseBoundary(resp.ContentType)
		if err != nil {
			return nil, response.WithDetail(crowd.ErrDecodeFailure, crowd.DecodeFailureDetail{ContentType: resp.ContentType})
		}
		return mjpeg.ReadFrame(ctx, resp.Body, boundary, mjpeg.WithMaxFrameSize(s.cfg.MaxFrameSize))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.cfg.MaxFrameSize)+1))
	if err != nil {
		return nil, err
	}
	if len(body) > s.cfg.MaxFrameSize {
		return nil, mjpeg.ErrFrameTooLarge
	}
	return body, nil
}

// Summarize renders the one-line outcome shown next to the preview.
func Summarize(r density.Record) string {
	rounded := r.Rounded()
	icon := "✅"
	if rounded.Status == density.StatusHighCrowd {
		icon = "🚨"
	}
	return fmt.Sprintf("%s %d people | %s%% density | %s", icon, rounded.Count, rounded.FormatDensity(), rounded.Status)
}

// mapUpstreamError folds package level failures into the crowd error kinds.
// Errors that already carry a kind pass through untouched.
func mapUpstreamError(err error) error {
	var respErr *response.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &respErr):
		return err
	case errors.Is(err, mjpeg.ErrIncompleteStream):
		return fmt.Errorf("%w: %v", crowd.ErrIncompleteStream, err)
	case errors.Is(err, mjpeg.ErrFrameTooLarge):
		return fmt.Errorf("%w: %v", crowd.ErrFrameTooLarge, err)
	case errors.Is(err, context.Canceled):
		return err
	case camera.IsTimeout(err) || errors.Is(err, camera.ErrTimeout):
		return fmt.Errorf("%w: %v", crowd.ErrUpstreamTimeout, err)
	default:
		return fmt.Errorf("%w: %v", crowd.ErrUpstreamConnection, err)
	}
}

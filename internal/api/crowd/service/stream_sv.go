package crowdService

import (
	"context"
	"io"

	"CrowdMonitor/internal/api/crowd"
	"CrowdMonitor/pkg/camera"
	"CrowdMonitor/pkg/mjpeg"
)

const (
	defaultSnapshotType = "image/jpeg"
	defaultStreamType   = "multipart/x-mixed-replace; boundary=frame"
)

// Snapshot relays one upstream response body, whatever its content type.
func (s *crowdService) Snapshot(ctx context.Context, cameraURL string) (*crowd.Snapshot, error) {
	if cameraURL == "" {
		return nil, crowd.ErrMissingInput
	}

	resp, err := s.snapshot.Open(ctx, cameraURL)
	if err != nil {
		return nil, mapUpstreamError(err)
	}
	defer resp.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.cfg.MaxFrameSize)+1))
	if err != nil {
		return nil, mapUpstreamError(err)
	}
	if len(body) > s.cfg.MaxFrameSize {
		return nil, mapUpstreamError(mjpeg.ErrFrameTooLarge)
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = defaultSnapshotType
	}

	return &crowd.Snapshot{ContentType: contentType, Body: body}, nil
}

// OpenStream connects to the camera and hands back the open response. The
// caller owns the body and must close it when either side goes away.
func (s *crowdService) OpenStream(ctx context.Context, cameraURL string) (*camera.Response, error) {
	if cameraURL == "" {
		return nil, crowd.ErrMissingInput
	}

	resp, err := s.stream.Open(ctx, cameraURL)
	if err != nil {
		return nil, mapUpstreamError(err)
	}
	if resp.ContentType == "" {
		resp.ContentType = defaultStreamType
	}

	return resp, nil
}

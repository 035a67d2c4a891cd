package crowdService

import (
	"context"
	"errors"

	"CrowdMonitor/internal/api/crowd"
	"CrowdMonitor/pkg/camera"
	"CrowdMonitor/pkg/log"
	"CrowdMonitor/pkg/redis"
	"CrowdMonitor/pkg/response"

	jsoniter "github.com/json-iterator/go"
)

const probeKeyPrefix = "probe:"

func (s *crowdService) Probe(ctx context.Context, cameraURL string) (*crowd.ProbeResponse, error) {
	if cameraURL == "" {
		return nil, crowd.ErrMissingInput
	}

	key := probeKeyPrefix + cameraURL
	if cached, ok := s.cachedProbe(ctx, key); ok {
		return cached, nil
	}

	result, err := s.analyze.Probe(ctx, cameraURL, s.cfg.ProbeTimeout)
	if err != nil {
		var probeErr *camera.ProbeError
		if errors.As(err, &probeErr) {
			return nil, response.WithDetail(crowd.ErrProbeFailed, crowd.ProbeFailureDetail{Tried: probeErr.Tried})
		}
		return nil, mapUpstreamError(err)
	}

	s.log.WithFields(log.Fields{
		"camera_url":   cameraURL,
		"resolved_url": result.ResolvedURL,
		"content_type": result.ContentType,
		"attempts":     len(result.Tried),
	}).Info("Camera url resolved")

	if payload, err := jsoniter.MarshalToString(result); err == nil {
		if err := s.cache.SetProbe(ctx, key, payload, s.cfg.ProbeCacheTTL); err != nil {
			s.log.WithFields(log.Fields{"key": key, "error": err.Error()}).Warn("Failed to cache probe result")
		}
	}

	return result, nil
}

// cachedProbe never fails: misses, Redis errors and corrupt entries all
// fall through to a live probe.
func (s *crowdService) cachedProbe(ctx context.Context, key string) (*crowd.ProbeResponse, bool) {
	payload, err := s.cache.GetProbe(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrMiss) {
			s.log.WithFields(log.Fields{"key": key, "error": err.Error()}).Warn("Probe cache unavailable")
		}
		return nil, false
	}

	var result crowd.ProbeResponse
	if err := jsoniter.UnmarshalFromString(payload, &result); err != nil {
		s.log.WithFields(log.Fields{"key": key, "error": err.Error()}).Warn("Discarding corrupt probe cache entry")
		_ = s.cache.DeleteProbe(ctx, key)
		return nil, false
	}

	return &result, true
}

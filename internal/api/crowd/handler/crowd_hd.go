package crowdHandler

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"CrowdMonitor/internal/api/crowd"
	contextPkg "CrowdMonitor/pkg/context"
	"CrowdMonitor/pkg/handlerUtil"
	"CrowdMonitor/pkg/log"
	"CrowdMonitor/pkg/mjpeg"

	"github.com/gofiber/fiber/v2"
)

func (h *CrowdHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.cfg.AnalyzeTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing crowd analysis request")

	var req crowd.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil || strings.TrimSpace(req.CameraURL) == "" {
		return errHandler.Handle(ctx, requestID, crowd.ErrMissingInput, ctx.Path(), "parse_request_body")
	}
	req.CameraURL = strings.TrimSpace(req.CameraURL)

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.crowdService.Analyze(c, req.CameraURL)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_crowd")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"count":      result.Record.Count,
			"density":    result.Record.Density,
			"status":     result.Record.Status,
		}).Info("Crowd analysis successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, crowd.NewAnalyzeResponse(result))
	}
}

func (h *CrowdHandler) SendReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.cfg.AnalyzeTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req crowd.ReportRequest
	if err := ctx.BodyParser(&req); err != nil || strings.TrimSpace(req.CameraURL) == "" {
		return errHandler.Handle(ctx, requestID, crowd.ErrMissingInput, ctx.Path(), "parse_request_body")
	}
	req.CameraURL = strings.TrimSpace(req.CameraURL)
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.crowdService.SendReport(c, req.CameraURL, req.Email)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "send_report")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, crowd.ReportResponse{
		Success: true,
		Message: "Report sent to " + req.Email,
		Email:   req.Email,
		Data:    crowd.NewAnalysisData(result.Record),
	})
}

func (h *CrowdHandler) Probe(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	cameraURL := strings.TrimSpace(ctx.Query("url"))
	if cameraURL == "" {
		return errHandler.Handle(ctx, requestID, crowd.ErrMissingInput, ctx.Path(), "probe_camera")
	}

	result, err := h.crowdService.Probe(contextPkg.FromFiberCtx(ctx), cameraURL)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "probe_camera")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}

func (h *CrowdHandler) Snapshot(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.cfg.SnapshotTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	cameraURL := strings.TrimSpace(ctx.Query("url"))
	if cameraURL == "" {
		return errHandler.Handle(ctx, requestID, crowd.ErrMissingInput, ctx.Path(), "fetch_snapshot")
	}

	snap, err := h.crowdService.Snapshot(c, cameraURL)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "fetch_snapshot")
	}

	ctx.Set(fiber.HeaderContentType, snap.ContentType)
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.Status(fiber.StatusOK).Send(snap.Body)
}

// Video relays the camera response byte for byte until either side closes.
// The upstream stays open after the handler returns, so it is bound to its
// own context rather than the request's.
func (h *CrowdHandler) Video(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	cameraURL := strings.TrimSpace(ctx.Query("url"))
	if cameraURL == "" {
		return errHandler.Handle(ctx, requestID, crowd.ErrMissingInput, ctx.Path(), "open_stream")
	}

	streamCtx, cancel := context.WithCancel(contextPkg.WithRequestID(context.Background(), requestID))
	resp, err := h.crowdService.OpenStream(streamCtx, cameraURL)
	if err != nil {
		cancel()
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_stream")
	}

	fields := log.Fields{
		"request_id":   requestID,
		"path":         ctx.Path(),
		"content_type": resp.ContentType,
	}
	h.log.WithFields(fields).Info("Proxying camera stream")

	ctx.Set(fiber.HeaderContentType, resp.ContentType)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Status(fiber.StatusOK).Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer resp.Close()

		// Cancelling streamCtx aborts a Body.Read stuck on a silent camera.
		idle := time.AfterFunc(h.cfg.StreamIdleTimeout, cancel)
		defer idle.Stop()

		relayed := 0
		chunk := make([]byte, mjpeg.DefaultChunkSize)
		for {
			n, readErr := resp.Body.Read(chunk)
			if n > 0 {
				idle.Reset(h.cfg.StreamIdleTimeout)
				if _, err := w.Write(chunk[:n]); err != nil {
					break
				}
				if err := w.Flush(); err != nil {
					break
				}
				relayed += n
			}
			if readErr != nil {
				if streamCtx.Err() != nil {
					fields["idle_timeout"] = h.cfg.StreamIdleTimeout.String()
				} else if !errors.Is(readErr, io.EOF) {
					fields["error"] = readErr.Error()
				}
				break
			}
		}

		fields["bytes"] = relayed
		h.log.WithFields(fields).Info("Camera stream closed")
	})

	return nil
}

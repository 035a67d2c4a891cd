package crowdHandler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"CrowdMonitor/internal/api/crowd"
	contextPkg "CrowdMonitor/pkg/context"
	"CrowdMonitor/pkg/handlerUtil"
	"CrowdMonitor/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	defaultLiveInterval = 5 * time.Second
	minLiveInterval     = 1 * time.Second

	liveURLKey       = "live_camera_url"
	liveIntervalKey  = "live_interval"
	liveRequestIDKey = "live_request_id"
)

// upgradeLive validates the query before the protocol switch so a missing
// url is still answered with a plain JSON error.
func (h *CrowdHandler) upgradeLive(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	requestID := h.middleware.GetRequestID(ctx)
	cameraURL := strings.TrimSpace(ctx.Query("url"))
	if cameraURL == "" {
		return handlerUtil.New(h.log).Handle(ctx, requestID, crowd.ErrMissingInput, ctx.Path(), "live_upgrade")
	}

	ctx.Locals(liveURLKey, cameraURL)
	ctx.Locals(liveIntervalKey, parseInterval(ctx.Query("interval"), h.cfg.LiveInterval))
	ctx.Locals(liveRequestIDKey, requestID)

	return ctx.Next()
}

// parseInterval accepts a Go duration ("2s") or a number of seconds ("2").
// Anything shorter than a second is raised to a second.
func parseInterval(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fallback
		}
		d = time.Duration(secs * float64(time.Second))
	}

	if d < minLiveInterval {
		return minLiveInterval
	}
	return d
}

func (h *CrowdHandler) handleLiveWebSocket(c *websocket.Conn) {
	cameraURL, _ := c.Locals(liveURLKey).(string)
	interval, _ := c.Locals(liveIntervalKey).(time.Duration)
	requestID, _ := c.Locals(liveRequestIDKey).(string)

	fields := log.Fields{
		"request_id": requestID,
		"camera_url": cameraURL,
		"interval":   interval.String(),
	}
	h.log.WithFields(fields).Info("Live feed client connected")
	defer h.log.WithFields(fields).Info("Live feed client disconnected")

	c.SetPingHandler(func(data string) error {
		h.log.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	session, cancel := context.WithCancel(contextPkg.WithRequestID(context.Background(), requestID))
	defer cancel()

	// Inbound messages are ignored; the reader exists to notice the client
	// leaving and to serve control frames.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
					h.log.Errorf("Live feed WebSocket error: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !h.pushLiveUpdate(session, c, cameraURL, requestID) {
			return
		}

		select {
		case <-session.Done():
			return
		case <-ticker.C:
		}
	}
}

// pushLiveUpdate runs one independent analysis and writes its outcome. It
// reports false once the connection is no longer usable.
func (h *CrowdHandler) pushLiveUpdate(session context.Context, c *websocket.Conn, cameraURL, requestID string) bool {
	ctx, cancel := context.WithTimeout(session, h.cfg.AnalyzeTimeout)
	defer cancel()

	result, err := h.crowdService.Analyze(ctx, cameraURL)
	if session.Err() != nil {
		return false
	}

	var payload any
	if err != nil {
		status, body := handlerUtil.Describe(err)
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"status":     status,
			"code":       body.Code,
		}).Warn("Live analysis failed")
		payload = body
	} else {
		payload = crowd.LiveUpdate{
			AnalyzeResponse: crowd.NewAnalyzeResponse(result),
			Timestamp:       result.AnalyzedAt,
		}
	}

	if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		h.log.Errorf("Error setting write deadline: %v", err)
		return false
	}
	if err := c.WriteJSON(payload); err != nil {
		h.log.Errorf("Error writing live update: %v", err)
		return false
	}
	if err := c.SetWriteDeadline(time.Time{}); err != nil {
		h.log.Errorf("Error resetting write deadline: %v", err)
		return false
	}

	return true
}

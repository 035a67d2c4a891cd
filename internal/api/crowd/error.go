package crowd

import (
	"CrowdMonitor/pkg/response"
	"net/http"
)

var (
	ErrMissingInput       = response.NewKindError(http.StatusBadRequest, "MISSING_INPUT", "Missing camera URL")
	ErrUpstreamTimeout    = response.NewKindError(http.StatusRequestTimeout, "UPSTREAM_TIMEOUT", "Camera timeout - check connection")
	ErrUpstreamConnection = response.NewKindError(http.StatusBadRequest, "UPSTREAM_CONNECTION_ERROR", "Cannot connect to camera URL")
	ErrIncompleteStream   = response.NewKindError(http.StatusBadRequest, "INCOMPLETE_STREAM", "Camera stream ended before a complete frame")
	ErrFrameTooLarge      = response.NewKindError(http.StatusBadRequest, "FRAME_TOO_LARGE", "Camera frame exceeds the size limit")
	ErrDecodeFailure      = response.NewKindError(http.StatusBadRequest, "DECODE_FAILURE", "Cannot decode image from camera")
	ErrProbeFailed        = response.NewKindError(http.StatusBadRequest, "PROBE_FAILED", "Failed to probe camera URL")
	ErrNotifierDisabled   = response.NewKindError(http.StatusServiceUnavailable, "NOTIFIER_DISABLED", "Email reports are disabled")
	ErrSendReport         = response.NewKindError(http.StatusBadGateway, "REPORT_FAILED", "Failed to send crowd report")
)

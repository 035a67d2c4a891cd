package handlerUtil

import (
	"CrowdMonitor/pkg/log"
	"CrowdMonitor/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeUnhandled  = "UNHANDLED_FAILURE"
	CodeTimeout    = "UPSTREAM_TIMEOUT"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Describe maps err onto the status code and body clients receive.
func Describe(err error) (int, ErrorResponse) {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return respErr.Code, ErrorResponse{
			Error:  respErr.Error(),
			Code:   respErr.Kind,
			Detail: respErr.Detail,
		}
	}

	return fiber.StatusInternalServerError, ErrorResponse{
		Error: "Analysis failed: " + err.Error(),
		Code:  CodeUnhandled,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	status, body := Describe(err)

	entry := h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"code":       body.Code,
		"status":     status,
		"path":       path,
		"operation":  operation,
	})
	if status >= fiber.StatusInternalServerError {
		entry.Error("Operation failed unexpectedly")
	} else {
		entry.Warn("Operation failed with error response")
	}

	return c.Status(status).JSON(body)
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  CodeValidation,
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: "Analysis timed out",
		Code:  CodeTimeout,
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

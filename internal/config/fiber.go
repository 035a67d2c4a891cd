package config

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(cfg AppConfig, logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               cfg.AppName,
			BodyLimit:             1 * 1024 * 1024,
			DisableKeepalive:      false,
			StrictRouting:         false,
			CaseSensitive:         true,
			DisableStartupMessage: true,
			IdleTimeout:           2 * time.Minute,
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				if e, ok := err.(*fiber.Error); ok {
					code = e.Code
				}
				logger.WithFields(logrus.Fields{
					"path":   c.Path(),
					"status": code,
					"error":  err.Error(),
				}).Warn("Unhandled fiber error")
				return c.Status(code).JSON(fiber.Map{"error": err.Error()})
			},
		})

	return app
}

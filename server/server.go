// Package server exposes a session over HTTP: open raw clips, fetch decoded
// frames as images and probe single pixels.
package server

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/krisalay/yuv-frame-cache/logging"
	"github.com/krisalay/yuv-frame-cache/session"
)

// New builds the viewer app. metrics may be nil, in which case /metrics is not mounted.
func New(sess *session.Session, metrics http.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "yuvview",
		DisableStartupMessage: true,
	})

	app.Use(requestLogger)

	MountController(app.Group("/sources"), sess)

	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	return app
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	logging.Op().Debug("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start))
	return err
}

// Package http provides the HTTP server for the relay.
package http

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/gogo/relay/internal/transport/ws"
)

// NewServer creates and configures the relay's HTTP server: the WebSocket
// endpoint, health and session read-back, plus optional static hosting.
func NewServer(h *Handler, wsServer *ws.Server, staticDir string, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	// Register Routes
	e.GET("/ws/session/:client_id", wsServer.HandleWebSocket)
	h.RegisterRoutes(e)

	if staticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  staticDir,
			HTML5: false,
			Index: "index.html",
		}))
	}

	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}

package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/primecutstudio/outreach/internal/config"
	"github.com/primecutstudio/outreach/internal/handler"
	middlewarepkg "github.com/primecutstudio/outreach/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Discover *handler.DiscoverHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/discover", handlers.Discover.Discover, middlewarepkg.DiscoverRateLimiter(cfg.RateLimitDiscover))
}

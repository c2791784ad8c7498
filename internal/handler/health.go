package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports whether the service and its backing stores are up.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Health pings MySQL and Redis with a short timeout. Any failing dependency
// turns the whole check into a 503 so load balancers stop routing here.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := echo.Map{}

	if err := h.DB.PingContext(ctx); err != nil {
		checks["mysql"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["mysql"] = "up"
	}

	if err := h.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["redis"] = "up"
	}

	return c.JSON(status, checks)
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"eva-framework/internal/adapter/middleware"
)

type RouterDeps struct {
	Health    *Handler
	Screening *ScreeningHandler
	Metrics   http.Handler // nil disables /metrics

	Redis        *redis.Client // nil disables idempotency
	IdempTTL     time.Duration
	RateLimitRPS float64 // 0 disables rate limiting
	Logger       *slog.Logger
}

func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}),
		echomw.Logger(),
		echomw.Recover(),
	)
	if d.RateLimitRPS > 0 {
		e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(d.RateLimitRPS))))
	}

	e.GET("/health", d.Health.Health)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	api := e.Group("/api")
	var evalMW []echo.MiddlewareFunc
	if d.Redis != nil {
		evalMW = append(evalMW, middleware.Idempotency(d.Redis, d.IdempTTL, d.Logger))
	}
	api.POST("/evaluate", d.Screening.Evaluate, evalMW...)
	api.GET("/policy", d.Screening.Policy)
	api.GET("/traces/:id", d.Screening.GetTrace)
	return e
}

// Package middleware provides authentication, logging, and metrics middleware for the application.
package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapi_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// LikeToggles counts like-toggle operations by result ("liked" or "unliked").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapi_like_toggles_total",
		Help: "Total number of like toggle operations by result",
	}, []string{"result"})

	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapi_auth_failures_total",
		Help: "Total number of failed authentication attempts",
	}, []string{"reason"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for the given service
// name. The HTTP metric collectors register against the default Prometheus
// registry exactly once, so repeated server construction reuses them.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

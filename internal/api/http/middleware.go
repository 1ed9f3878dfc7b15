package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/observability"
	"github.com/spec-kit/attendance-service/internal/persistence"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// MiddlewareConfig bundles dependencies for global middleware.
type MiddlewareConfig struct {
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	Redis     *persistence.Redis
	CORS      config.CORSConfig
	RateLimit config.RateLimitConfig
	Timeout   time.Duration
}

// RegisterMiddlewares attaches global middlewares: error handling,
// request timeout, CORS for the admin frontend, rate limiting and
// request logging.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.FrontendOrigin,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))
	app.Use(rateLimitMiddleware(cfg.Redis, cfg.RateLimit))
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// rateLimitMiddleware bounds requests per client IP and path within a
// fixed window. It fails open when Redis is unreachable so an outage
// does not take down authentication.
func rateLimitMiddleware(redis *persistence.Redis, cfg config.RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redis == nil || cfg.MaxRequests <= 0 {
			return c.Next()
		}

		key := "rate_limit:" + c.IP() + ":" + c.Path()
		allowed, err := redis.Allow(c.UserContext(), key, cfg.MaxRequests, cfg.Window())
		if err != nil {
			return c.Next()
		}
		if !allowed {
			return apperrors.NewDomainError("RATE_LIMITED",
				"Too many requests from this IP, please try again later.",
				http.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}

// errorHandlingMiddleware converts every error into the uniform
// {"success":false,"message":...} body and recovers panics. Internal
// detail is logged server-side and never echoed to the client.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.String("code", domainErr.Code), zap.Error(domainErr))
				}

				response := fiber.Map{
					"success": false,
					"message": domainErr.Message,
				}
				if len(domainErr.Details) > 0 {
					response["details"] = domainErr.Details
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

package http

import (
	"time"

	"github.com/ibis1225/pet-ai/internal/infrastructure/auth"
	"github.com/ibis1225/pet-ai/internal/infrastructure/ratelimit"
	"github.com/ibis1225/pet-ai/internal/interfaces/http/handlers"
	consultationhandlers "github.com/ibis1225/pet-ai/internal/interfaces/http/handlers/consultation"
	"github.com/ibis1225/pet-ai/internal/interfaces/http/middleware"
)

type allHandlers struct {
	health       *handlers.HealthHandler
	consultation *consultationhandlers.Handler
	admin        *consultationhandlers.AdminHandler
}

func (c *Container) initHandlers() error {
	if err := consultationhandlers.RegisterValidators(); err != nil {
		return err
	}

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer, c.cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	if c.redis != nil && c.cfg.Webhook.RateLimit > 0 {
		c.rateLimiter = middleware.NewRateLimiter(
			ratelimit.NewRedisRateLimiter(c.redis),
			ratelimit.Limit{
				Requests: c.cfg.Webhook.RateLimit,
				Window:   time.Duration(c.cfg.Webhook.RateLimitWindowSecs) * time.Second,
			},
			c.log,
		)
	}

	c.hdlrs = &allHandlers{
		health:       handlers.NewHealthHandler(c.db, c.redis),
		consultation: consultationhandlers.NewHandler(c.ucs.dispatcher, c.ucs.history, c.log),
		admin: consultationhandlers.NewAdminHandler(
			c.ucs.list, c.ucs.get, c.ucs.update, c.ucs.stats, c.log,
		),
	}
	return nil
}

package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ibis1225/pet-ai/internal/infrastructure/auth"
	"github.com/ibis1225/pet-ai/internal/infrastructure/cache"
	"github.com/ibis1225/pet-ai/internal/infrastructure/config"
	"github.com/ibis1225/pet-ai/internal/interfaces/http/middleware"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases and
// handlers, and wires them together.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	jwtSvc         *auth.JWTService
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	c.initRedis(ctx)

	if err := c.initRepositories(ctx); err != nil {
		return nil, err
	}

	c.initUseCases()

	if err := c.initHandlers(); err != nil {
		return nil, err
	}

	return c, nil
}

// initRedis connects when enabled. Redis only backs delivery dedup and
// rate limiting, so a failed connection is logged and the server runs
// without both.
func (c *Container) initRedis(ctx context.Context) {
	if !c.cfg.Redis.Enabled {
		c.log.Infow("redis disabled; delivery dedup and rate limiting are off")
		return
	}

	client, err := cache.NewRedisClient(ctx, &c.cfg.Redis)
	if err != nil {
		c.log.Warnw("redis unavailable; delivery dedup and rate limiting are off",
			"addr", c.cfg.Redis.GetAddr(),
			"error", err,
		)
		return
	}
	c.redis = client
}

func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}

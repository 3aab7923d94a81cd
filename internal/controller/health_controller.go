package controller

import (
	"context"
	"time"

	"ai-medreport-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
}

type healthController struct {
	db         *gorm.DB
	rdb        *redis.Client
	aiProvider string
	aiModel    string
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, aiProvider, aiModel string) IHealthController {
	return &healthController{db: db, rdb: rdb, aiProvider: aiProvider, aiModel: aiModel}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health/v1")
	h.Get("", c.Check)
}

func (c *healthController) Check(ctx *fiber.Ctx) error {
	checkCtx, cancel := context.WithTimeout(ctx.Context(), 2*time.Second)
	defer cancel()

	components := fiber.Map{
		"database": c.checkDatabase(checkCtx),
		"redis":    c.checkRedis(checkCtx),
	}

	status := "ok"
	for _, state := range components {
		if state != "ok" && state != "not configured" {
			status = "degraded"
			break
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Health check", fiber.Map{
		"status":     status,
		"components": components,
		"ai": fiber.Map{
			"provider": c.aiProvider,
			"model":    c.aiModel,
		},
		"time": time.Now().UTC(),
	}))
}

func (c *healthController) checkDatabase(ctx context.Context) string {
	if c.db == nil {
		return "not configured"
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func (c *healthController) checkRedis(ctx context.Context) string {
	if c.rdb == nil {
		return "not configured"
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

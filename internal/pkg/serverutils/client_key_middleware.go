// FILE: internal/pkg/serverutils/client_key_middleware.go
package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// ClientKeyMiddleware resolves the caller identity used for per-client
// rate limiting: the X-API-Key header when present, the caller IP
// otherwise. It never rejects a request.
func ClientKeyMiddleware(ctx *fiber.Ctx) error {
	key := ctx.Get("X-API-Key")
	if key == "" {
		key = ctx.IP()
	}
	ctx.Locals("client_key", key)
	return ctx.Next()
}

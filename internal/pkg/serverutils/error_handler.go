// FILE: internal/pkg/serverutils/error_handler.go
package serverutils

import (
	"errors"
	"fmt"
	"strconv"

	"ai-medreport-be/internal/pkg/textextract"
	"ai-medreport-be/pkg/analysis"
	"ai-medreport-be/pkg/analysis/aiclient"

	"github.com/gofiber/fiber/v2"
)

// ErrNotFound is returned by services when the requested resource does
// not exist (or is not visible to the caller).
var ErrNotFound = errors.New("resource not found")

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so that
// controllers can just return errors from services.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusUnprocessableEntity).
				JSON(ErrorResponseWithDetails(fiber.StatusUnprocessableEntity, "validation failed", verr.Fields))
		}

		if errors.Is(err, analysis.ErrEmptyInput) {
			return ctx.Status(fiber.StatusBadRequest).
				JSON(ErrorResponse(fiber.StatusBadRequest, "document text is empty"))
		}

		var rle *analysis.RateLimitError
		if errors.As(err, &rle) {
			retryAfter := int(rle.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			ctx.Set("Retry-After", strconv.Itoa(retryAfter))
			if rle.Limit > 0 {
				ctx.Set("X-RateLimit-Limit", strconv.Itoa(rle.Limit))
			}
			ctx.Set("X-RateLimit-Remaining", "0")
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(ErrorResponse(fiber.StatusTooManyRequests, fmt.Sprintf("rate limit exceeded, retry in %ds", retryAfter)))
		}

		if errors.Is(err, textextract.ErrUnsupportedFormat) {
			return ctx.Status(fiber.StatusUnsupportedMediaType).
				JSON(ErrorResponse(fiber.StatusUnsupportedMediaType, err.Error()))
		}

		if errors.Is(err, ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).
				JSON(ErrorResponse(fiber.StatusNotFound, err.Error()))
		}

		if errors.Is(err, aiclient.ErrAIUnavailable) {
			return ctx.Status(fiber.StatusUnprocessableEntity).
				JSON(ErrorResponse(fiber.StatusUnprocessableEntity, "analysis could not be completed"))
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}

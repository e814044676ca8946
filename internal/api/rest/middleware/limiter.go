package middleware

import "github.com/gofiber/fiber/v2"

// AttemptLimiter decides whether another attempt from the given key may
// proceed. Login and OTP routes consume it so a real limiter can be
// slotted in without touching the auth core.
type AttemptLimiter interface {
	Allow(key string) bool
}

// NoopLimiter allows every attempt.
type NoopLimiter struct{}

func (NoopLimiter) Allow(string) bool { return true }

func LimitAttempts(limiter AttemptLimiter) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if limiter == nil {
			return ctx.Next()
		}

		key := ctx.IP() + ctx.Path()
		if !limiter.Allow(key) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "too many attempts",
			})
		}

		return ctx.Next()
	}
}

package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

// ResponseSuccess renders the success envelope; extra carries additional
// top-level fields (token, user) merged into the response body.
func ResponseSuccess(ctx *fiber.Ctx, status int, msg string, extra fiber.Map) error {
	body := fiber.Map{
		"success": true,
		"message": msg,
	}
	for k, v := range extra {
		body[k] = v
	}
	return ctx.Status(status).JSON(body)
}

package queryparams

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PathID parses a positive numeric route parameter.
func PathID(c *fiber.Ctx, name string) (uint, bool) {
	return parseID(c.Params(name))
}

// QueryID parses an optional numeric query parameter; absent yields 0 and true.
func QueryID(c *fiber.Ctx, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	return parseID(raw)
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

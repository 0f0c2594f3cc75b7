package user

import "github.com/gofiber/fiber/v2"

const userIDLocal = "userID"

// WithUserID stores the resolved user id on the request. Called by the
// session gate; exported so handler tests can stand in for it.
func WithUserID(c *fiber.Ctx, id int) {
	c.Locals(userIDLocal, id)
}

// UserIDFromCtx extracts the user id the session gate resolved for this
// request. This is needed by several packages, so it lives here for reuse.
func UserIDFromCtx(c *fiber.Ctx) (int, error) {
	if id, ok := c.Locals(userIDLocal).(int); ok && id > 0 {
		return id, nil
	}
	return 0, fiber.ErrUnauthorized
}

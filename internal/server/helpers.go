package server

import (
	"strconv"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the session user resolved by LoadCurrentUser,
// or nil for anonymous requests.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}

// render renders a template with the base context every page needs.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["CurrentUser"] = s.currentUser(c)
	data["Year"] = time.Now().Year()
	return c.Render(name, data)
}

// parseID reads a numeric route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, models.NewNotFoundError("Post", c.Params(name))
	}
	return uint(id), nil
}

package server

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// LoadCurrentUser resolves the session user, if any, into request locals.
// Anonymous and expired sessions pass through untouched.
func (s *Server) LoadCurrentUser(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return c.Next()
	}

	userID, ok := sess.Get("userID").(uint)
	if !ok {
		return c.Next()
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		// Stale session pointing at a deleted account.
		_ = sess.Destroy()
		return c.Next()
	}

	c.Locals("currentUser", user)
	return c.Next()
}

// LoginRequired redirects anonymous requests to the login page with a
// next parameter pointing back at the requested URL. The value is
// escaped so a target carrying its own query survives the round trip.
func (s *Server) LoginRequired(c *fiber.Ctx) error {
	if s.currentUser(c) == nil {
		return c.Redirect("/auth/login/?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}
	return c.Next()
}

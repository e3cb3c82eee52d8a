package server

import (
	"inkwell/internal/forms"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddComment attaches a comment to a post. Valid or not, the request
// ends back on the post page, so an empty submission simply disappears.
func (s *Server) AddComment(c *fiber.Ctx) error {
	user := s.currentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	form := forms.ParseComment(c.FormValue("text"))
	if form.Valid() {
		comment := models.Comment{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     form.Text,
		}
		if err := s.commentRepo.Create(c.Context(), &comment); err != nil {
			return err
		}
	}

	return c.Redirect(postURL(post.ID))
}

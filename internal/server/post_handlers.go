package server

import (
	"errors"
	"fmt"

	"inkwell/internal/forms"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PostDetail renders a single post with its comments and a comment form.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	comments, err := s.commentRepo.ListByPost(c.Context(), post.ID)
	if err != nil {
		return err
	}

	authorPosts, err := s.postRepo.CountByAuthor(c.Context(), post.AuthorID)
	if err != nil {
		return err
	}

	return s.render(c, "post_detail", fiber.Map{
		"Post":            post,
		"Comments":        comments,
		"AuthorPostCount": authorPosts,
	})
}

// PostCreatePage renders the empty post form.
func (s *Server) PostCreatePage(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return err
	}
	return s.render(c, "post_create", fiber.Map{
		"Form":   &forms.PostForm{Errors: map[string]string{}},
		"Groups": groups,
		"IsEdit": false,
	})
}

// PostCreate validates and saves a new post by the current user.
func (s *Server) PostCreate(c *fiber.Ctx) error {
	user := s.currentUser(c)

	form, err := s.bindPostForm(c)
	if err != nil {
		return err
	}

	if !form.Valid() {
		groups, err := s.groupRepo.List(c.Context())
		if err != nil {
			return err
		}
		return s.render(c, "post_create", fiber.Map{
			"Form":   form,
			"Groups": groups,
			"IsEdit": false,
		})
	}

	post := models.Post{AuthorID: user.ID}
	form.Apply(&post)
	if err := s.postRepo.Create(c.Context(), &post); err != nil {
		return err
	}

	return c.Redirect("/profile/" + user.Username + "/")
}

// PostEditPage renders the post form pre-filled with an existing post.
// Everyone except the author is sent to the post page instead.
func (s *Server) PostEditPage(c *fiber.Ctx) error {
	user := s.currentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if post.AuthorID != user.ID {
		return c.Redirect(postURL(post.ID))
	}

	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return err
	}

	form := &forms.PostForm{
		Text:      post.Text,
		ImagePath: post.ImagePath,
		Errors:    map[string]string{},
	}
	if post.GroupID != nil {
		form.GroupValue = fmt.Sprintf("%d", *post.GroupID)
	}

	return s.render(c, "post_create", fiber.Map{
		"Form":   form,
		"Groups": groups,
		"IsEdit": true,
		"Post":   post,
	})
}

// PostEdit validates and saves changes to an existing post. The author
// and publication date never change.
func (s *Server) PostEdit(c *fiber.Ctx) error {
	user := s.currentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if post.AuthorID != user.ID {
		return c.Redirect(postURL(post.ID))
	}

	form, err := s.bindPostForm(c)
	if err != nil {
		return err
	}

	if !form.Valid() {
		groups, err := s.groupRepo.List(c.Context())
		if err != nil {
			return err
		}
		return s.render(c, "post_create", fiber.Map{
			"Form":   form,
			"Groups": groups,
			"IsEdit": true,
			"Post":   post,
		})
	}

	form.Apply(post)
	if err := s.postRepo.Update(c.Context(), post); err != nil {
		return err
	}

	return c.Redirect(postURL(post.ID))
}

// bindPostForm parses the submitted post fields and stores an uploaded
// image if one was attached. Upload failures become form errors so the
// page re-renders instead of failing the request.
func (s *Server) bindPostForm(c *fiber.Ctx) (*forms.PostForm, error) {
	form := forms.ParsePost(c.Context(), c.FormValue("text"), c.FormValue("group"), s.groupRepo)

	fh, err := c.FormFile("image")
	if err != nil || fh == nil {
		return form, nil
	}
	if s.files == nil {
		form.AddImageError("Image uploads are not available")
		return form, nil
	}

	path, err := s.files.SaveImage(fh)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			form.AddImageError(appErr.Message)
			return form, nil
		}
		return nil, err
	}
	form.ImagePath = path
	return form, nil
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

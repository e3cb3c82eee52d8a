package server

import (
	"inkwell/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// Index renders the paginated feed of all posts, newest first. The
// rendered page is cached briefly, so a new post can take up to the
// cache TTL to appear here. Cached bytes include the layout, which
// varies on the session, so only the anonymous rendering is ever
// stored or served from the cache; signed-in viewers render fresh.
func (s *Server) Index(c *fiber.Ctx) error {
	total, err := s.postRepo.CountAll(c.Context())
	if err != nil {
		return err
	}
	page := s.paginator.Page(c.Query("page"), int(total))

	anonymous := s.currentUser(c) == nil
	key := cache.IndexKey(page.Number)

	if anonymous {
		if body := s.pageCache.Get(c.Context(), key); body != nil {
			c.Type("html", "utf-8")
			return c.Send(body)
		}
	}

	posts, err := s.postRepo.ListPage(c.Context(), page.Offset, page.Limit)
	if err != nil {
		return err
	}

	if err := s.render(c, "index", fiber.Map{
		"Posts": posts,
		"Page":  page,
	}); err != nil {
		return err
	}

	if anonymous {
		body := append([]byte(nil), c.Response().Body()...)
		s.pageCache.Set(c.Context(), key, body)
	}
	return nil
}

// GroupPosts renders the paginated feed of one group.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, err := s.groupRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}

	total, err := s.postRepo.CountByGroup(c.Context(), group.ID)
	if err != nil {
		return err
	}
	page := s.paginator.Page(c.Query("page"), int(total))

	posts, err := s.postRepo.ListByGroup(c.Context(), group.ID, page.Offset, page.Limit)
	if err != nil {
		return err
	}

	return s.render(c, "group_list", fiber.Map{
		"Group": group,
		"Posts": posts,
		"Page":  page,
	})
}

// FollowIndex renders the feed of posts by authors the current user follows.
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	user := s.currentUser(c)

	total, err := s.postRepo.CountFollowed(c.Context(), user.ID)
	if err != nil {
		return err
	}
	page := s.paginator.Page(c.Query("page"), int(total))

	posts, err := s.postRepo.ListFollowed(c.Context(), user.ID, page.Offset, page.Limit)
	if err != nil {
		return err
	}

	return s.render(c, "follow", fiber.Map{
		"Posts": posts,
		"Page":  page,
	})
}

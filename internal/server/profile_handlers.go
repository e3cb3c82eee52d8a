package server

import (
	"github.com/gofiber/fiber/v2"
)

// Profile renders an author's page: their paginated posts plus follow state.
func (s *Server) Profile(c *fiber.Ctx) error {
	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}

	total, err := s.postRepo.CountByAuthor(c.Context(), author.ID)
	if err != nil {
		return err
	}
	page := s.paginator.Page(c.Query("page"), int(total))

	posts, err := s.postRepo.ListByAuthor(c.Context(), author.ID, page.Offset, page.Limit)
	if err != nil {
		return err
	}

	followers, err := s.followRepo.CountFollowers(c.Context(), author.ID)
	if err != nil {
		return err
	}
	following, err := s.followRepo.CountFollowing(c.Context(), author.ID)
	if err != nil {
		return err
	}

	viewer := s.currentUser(c)
	isFollowing := false
	isSelf := false
	if viewer != nil {
		isSelf = viewer.ID == author.ID
		if !isSelf {
			isFollowing, err = s.followRepo.Exists(c.Context(), viewer.ID, author.ID)
			if err != nil {
				return err
			}
		}
	}

	return s.render(c, "profile", fiber.Map{
		"Author":         author,
		"Posts":          posts,
		"Page":           page,
		"PostCount":      total,
		"FollowerCount":  followers,
		"FollowingCount": following,
		"IsFollowing":    isFollowing,
		"IsSelf":         isSelf,
	})
}

// ProfileFollow subscribes the current user to an author. Following
// yourself is silently refused, and repeating the action changes nothing.
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	user := s.currentUser(c)

	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}

	if author.ID != user.ID {
		if err := s.followRepo.Follow(c.Context(), user.ID, author.ID); err != nil {
			return err
		}
	}
	return c.Redirect("/profile/" + author.Username + "/")
}

// ProfileUnfollow removes a subscription. Unfollowing someone you do not
// follow is a no-op.
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	user := s.currentUser(c)

	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}

	if err := s.followRepo.Unfollow(c.Context(), user.ID, author.ID); err != nil {
		return err
	}
	return c.Redirect("/profile/" + author.Username + "/")
}

package server

import (
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /:username/ — the author's posts plus follower info.
// The following flag is only meaningful for an authenticated viewer looking
// at someone else's profile.
func (s *Server) Profile(c *fiber.Ctx) error {
	username := c.Params("username")

	author, err := s.userRepo.GetByUsername(c.UserContext(), username)
	if err != nil {
		return respondAppError(c, err)
	}

	posts, page, err := paginate(c, func(limit, offset int) ([]*models.Post, int64, error) {
		return s.postService.AuthorPage(c.UserContext(), author.ID, limit, offset)
	})
	if err != nil {
		return respondAppError(c, err)
	}

	followers, err := s.followService.FollowerCount(c.UserContext(), author.ID)
	if err != nil {
		return respondAppError(c, err)
	}

	following := false
	if viewerID, ok := s.currentUserID(c); ok && viewerID != author.ID {
		following, err = s.followService.IsFollowing(c.UserContext(), viewerID, author.ID)
		if err != nil {
			return respondAppError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"author": fiber.Map{
			"username":   author.Username,
			"post_count": page.Count,
			"followers":  followers,
		},
		"following": following,
		"posts":     posts,
		"page":      page.Number,
		"num_pages": page.NumPages,
		"count":     page.Count,
	})
}

// FollowAuthor handles POST /:username/follow/
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	username := c.Params("username")

	if err := s.followService.Follow(c.UserContext(), mustUserID(c), username); err != nil {
		return respondAppError(c, err)
	}
	return c.Redirect(profilePath(username), fiber.StatusFound)
}

// UnfollowAuthor handles POST /:username/unfollow/ — 404 when there is no
// edge to remove.
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	username := c.Params("username")

	if err := s.followService.Unfollow(c.UserContext(), mustUserID(c), username); err != nil {
		return respondAppError(c, err)
	}
	return c.Redirect(profilePath(username), fiber.StatusFound)
}

package server

import (
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GroupPosts handles GET /group/:slug/ — the group's metadata plus its posts,
// newest first. Unknown slug is a 404.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")

	group, err := s.groupRepo.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return respondAppError(c, err)
	}

	posts, page, err := paginate(c, func(limit, offset int) ([]*models.Post, int64, error) {
		return s.postRepo.ListByGroup(c.UserContext(), group.ID, limit, offset)
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"group": fiber.Map{
			"title":       group.Title,
			"slug":        group.Slug,
			"description": group.Description,
		},
		"posts":     posts,
		"page":      page.Number,
		"num_pages": page.NumPages,
		"count":     page.Count,
	})
}

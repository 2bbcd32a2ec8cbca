package server

import (
	"encoding/json"

	"chronicle/internal/cache"
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /
//
// The response goes through the page cache: repeated reads of the same URI
// within the TTL return the stored bytes unchanged, even if posts were
// written in between.
func (s *Server) Index(c *fiber.Ctx) error {
	if entry, ok := s.pageCache.Get(c.UserContext(), c.OriginalURL()); ok {
		c.Set(fiber.HeaderContentType, entry.ContentType)
		return c.Send(entry.Body)
	}

	posts, page, err := paginate(c, func(limit, offset int) ([]*models.Post, int64, error) {
		return s.postService.FrontPage(c.UserContext(), limit, offset)
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return s.sendCachedJSON(c, fiber.Map{
		"posts":     posts,
		"page":      page.Number,
		"num_pages": page.NumPages,
		"count":     page.Count,
	})
}

// FollowIndex handles GET /follow/ — posts by the authors the current user
// follows. Following nobody yields an empty first page.
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	userID := mustUserID(c)

	posts, page, err := paginate(c, func(limit, offset int) ([]*models.Post, int64, error) {
		return s.postService.FollowPage(c.UserContext(), userID, limit, offset)
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":     posts,
		"page":      page.Number,
		"num_pages": page.NumPages,
		"count":     page.Count,
	})
}

// sendCachedJSON renders the payload, stores the exact bytes in the page
// cache under the request URI, and sends them.
func (s *Server) sendCachedJSON(c *fiber.Ctx, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return respondAppError(c, err)
	}
	s.pageCache.Put(c.UserContext(), c.OriginalURL(), cache.PageEntry{
		Body:        body,
		ContentType: fiber.MIMEApplicationJSON,
	})
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

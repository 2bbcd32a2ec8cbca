package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PageSize is the number of posts (and comments) per page.
const PageSize = 10

// pageInfo describes one page of a paginated listing.
type pageInfo struct {
	Number   int   `json:"page"`
	NumPages int   `json:"num_pages"`
	Count    int64 `json:"count"`
}

// parsePage extracts the page query parameter, defaulting to 1.
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

func pageCount(total int64) int {
	if total <= 0 {
		return 1
	}
	n := int((total + PageSize - 1) / PageSize)
	return n
}

// paginate runs fetch for the requested page, clamping an out-of-range page
// number down to the last page and refetching.
func paginate[T any](c *fiber.Ctx, fetch func(limit, offset int) ([]T, int64, error)) ([]T, pageInfo, error) {
	page := parsePage(c)
	items, total, err := fetch(PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, pageInfo{}, err
	}
	numPages := pageCount(total)
	if page > numPages {
		page = numPages
		items, total, err = fetch(PageSize, (page-1)*PageSize)
		if err != nil {
			return nil, pageInfo{}, err
		}
	}
	return items, pageInfo{Number: page, NumPages: numPages, Count: total}, nil
}

// loginRedirectTarget builds the login URL carrying the original URL in the
// next parameter. Path separators stay readable in the query value.
func loginRedirectTarget(originalURL string) string {
	next := strings.ReplaceAll(url.QueryEscape(originalURL), "%2F", "/")
	return "/auth/login?next=" + next
}

// safeNextTarget returns next if it is a local path, otherwise the fallback.
// Redirecting to an absolute URL from user input would be an open redirect.
func safeNextTarget(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}

// respondAppError maps the error taxonomy onto HTTP statuses.
func respondAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// mustUserID returns the authenticated user id set by AuthRequired.
func mustUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// postDetailPath is the canonical URL of a post.
func postDetailPath(username string, postID uint) string {
	return "/" + username + "/" + strconv.FormatUint(uint64(postID), 10) + "/"
}

func profilePath(username string) string {
	return "/" + username + "/"
}

package server

import (
	"errors"
	"io"

	"chronicle/internal/models"
	"chronicle/internal/service"
	"chronicle/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// NewPostForm handles GET /new/ — an empty publishing form plus the groups
// available for the select field.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.UserContext())
	if err != nil {
		return respondAppError(c, err)
	}

	slugs := make([]string, 0, len(groups))
	for _, g := range groups {
		slugs = append(slugs, g.Slug)
	}

	return c.JSON(fiber.Map{
		"form": fiber.Map{
			"fields": []string{"text", "group", "image"},
			"groups": slugs,
		},
	})
}

// CreatePost handles POST /new/
//
// A validation failure comes back as 200 with field errors and the submitted
// values, mirroring a re-rendered form; nothing is written in that case.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form := validation.PostForm{
		Text:      c.FormValue("text"),
		GroupSlug: c.FormValue("group"),
	}
	data, errs := form.Clean()
	if data.GroupSlug != "" && !errs.Any() {
		if _, err := s.groupRepo.GetBySlug(c.UserContext(), data.GroupSlug); err != nil {
			if !models.IsNotFound(err) {
				return respondAppError(c, err)
			}
			errs["group"] = "Unknown group: " + data.GroupSlug
		}
	}
	if errs.Any() {
		return s.renderFormErrors(c, errs, form)
	}

	image, err := readImageUpload(c)
	if err != nil {
		return s.renderFormErrors(c, validation.FieldErrors{"image": err.Error()}, form)
	}

	_, err = s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:  mustUserID(c),
		Text:      data.Text,
		GroupSlug: data.GroupSlug,
		Image:     image,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return s.renderFormErrors(c, validation.FieldErrors{"image": appErr.Message}, form)
		}
		return respondAppError(c, err)
	}

	return c.Redirect("/", fiber.StatusFound)
}

// PostDetail handles GET /:username/:post_id/ — the post plus its comments,
// oldest first.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	username, postID, ok := parsePostAddress(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", c.Path()))
	}

	post, err := s.postService.GetPost(c.UserContext(), username, postID)
	if err != nil {
		return respondAppError(c, err)
	}

	comments, page, err := paginate(c, func(limit, offset int) ([]*models.Comment, int64, error) {
		return s.commentService.ListComments(c.UserContext(), post.ID, limit, offset)
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":      post,
		"comments":  comments,
		"page":      page.Number,
		"num_pages": page.NumPages,
		"count":     page.Count,
	})
}

// AddComment handles POST /:username/:post_id/
func (s *Server) AddComment(c *fiber.Ctx) error {
	username, postID, ok := parsePostAddress(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", c.Path()))
	}

	// The post must resolve before the form is looked at: a bad submission
	// against a missing post is still a 404.
	if _, err := s.postService.GetPost(c.UserContext(), username, postID); err != nil {
		return respondAppError(c, err)
	}

	form := validation.CommentForm{Text: c.FormValue("text")}
	data, errs := form.Clean()
	if errs.Any() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"errors": errs,
			"values": fiber.Map{"text": form.Text},
		})
	}

	_, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		AuthorID: mustUserID(c),
		Username: username,
		PostID:   postID,
		Text:     data.Text,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
}

// EditPostForm handles GET /:username/:post_id/edit/
//
// Only the author sees the form; anyone else is bounced to the post without
// an error.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	username, postID, ok := parsePostAddress(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", c.Path()))
	}

	post, err := s.postService.GetPost(c.UserContext(), username, postID)
	if err != nil {
		return respondAppError(c, err)
	}
	if post.AuthorID != mustUserID(c) {
		return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
	}

	groupSlug := ""
	if post.Group != nil {
		groupSlug = post.Group.Slug
	}
	return c.JSON(fiber.Map{
		"form": fiber.Map{
			"fields": []string{"text", "group", "image"},
		},
		"values": fiber.Map{
			"text":  post.Text,
			"group": groupSlug,
		},
	})
}

// UpdatePost handles POST /:username/:post_id/edit/
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	username, postID, ok := parsePostAddress(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", c.Path()))
	}

	// Resolution and ownership come before validation: a missing post is a
	// 404 and a non-author is bounced, whatever the submission looked like.
	post, err := s.postService.GetPost(c.UserContext(), username, postID)
	if err != nil {
		return respondAppError(c, err)
	}
	if post.AuthorID != mustUserID(c) {
		return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
	}

	form := validation.PostForm{
		Text:      c.FormValue("text"),
		GroupSlug: c.FormValue("group"),
	}
	data, errs := form.Clean()
	if data.GroupSlug != "" && !errs.Any() {
		if _, err := s.groupRepo.GetBySlug(c.UserContext(), data.GroupSlug); err != nil {
			if !models.IsNotFound(err) {
				return respondAppError(c, err)
			}
			errs["group"] = "Unknown group: " + data.GroupSlug
		}
	}
	if errs.Any() {
		return s.renderFormErrors(c, errs, form)
	}

	image, imgErr := readImageUpload(c)
	if imgErr != nil {
		return s.renderFormErrors(c, validation.FieldErrors{"image": imgErr.Error()}, form)
	}

	_, err = s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		EditorID:  mustUserID(c),
		Username:  username,
		PostID:    postID,
		Text:      data.Text,
		GroupSlug: data.GroupSlug,
		Image:     image,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotAuthor) {
			// Someone else's post: no change, no error page.
			return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
		}
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			// Group existence was checked above, so what the service rejects
			// here is the upload.
			return s.renderFormErrors(c, validation.FieldErrors{"image": appErr.Message}, form)
		}
		return respondAppError(c, err)
	}

	return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
}

// renderFormErrors re-renders a post form submission with field errors.
// Status is 200: the form page renders again, it is not an API failure.
func (s *Server) renderFormErrors(c *fiber.Ctx, errs validation.FieldErrors, form validation.PostForm) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"errors": errs,
		"values": fiber.Map{
			"text":  form.Text,
			"group": form.GroupSlug,
		},
	})
}

// parsePostAddress extracts the (username, post id) pair addressing a post.
func parsePostAddress(c *fiber.Ctx) (string, uint, bool) {
	username := c.Params("username")
	postID, err := c.ParamsInt("post_id")
	if err != nil || postID <= 0 {
		return "", 0, false
	}
	return username, uint(postID), true
}

// readImageUpload pulls the optional image file out of a multipart form.
func readImageUpload(c *fiber.Ctx) (*service.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// No file part at all is fine; the field is optional.
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("could not read uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New("could not read uploaded file")
	}
	return &service.ImageUpload{Filename: fh.Filename, Content: content}, nil
}

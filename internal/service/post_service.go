package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ErrNotAuthor signals that the caller tried to modify someone else's post.
// Handlers treat it as a redirect back to the post, not as an error page.
var ErrNotAuthor = errors.New("user is not the post author")

const (
	DefaultMediaRoot    = "media"
	maxImageUploadBytes = 10 * 1024 * 1024
	postImageSubdir     = "posts"
)

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ImageUpload carries a user-submitted image file.
type ImageUpload struct {
	Filename string
	Content  []byte
}

type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupSlug string
	Image     *ImageUpload
}

type UpdatePostInput struct {
	EditorID  uint
	Username  string
	PostID    uint
	Text      string
	GroupSlug string
	Image     *ImageUpload
}

// PostService provides post publishing and page-assembly business logic.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	mediaRoot string
}

// NewPostService returns a new PostService. An empty mediaRoot falls back to
// DefaultMediaRoot.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, mediaRoot string) *PostService {
	if mediaRoot == "" {
		mediaRoot = DefaultMediaRoot
	}
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		mediaRoot: mediaRoot,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()

	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	imagePath, err := s.saveImage(in.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:      in.Text,
		AuthorID:  in.AuthorID,
		GroupID:   groupID,
		ImagePath: imagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("post.id", int(post.ID)))
	observability.PostsCreated.Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits a post in place. Only the author may edit; everyone else
// gets ErrNotAuthor and the post stays untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.UpdatePost")
	defer span.End()

	post, err := s.postRepo.GetByAuthorAndID(ctx, in.Username, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return post, ErrNotAuthor
	}

	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = groupID
	if in.Image != nil {
		imagePath, err := s.saveImage(in.Image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = imagePath
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost fetches a single post addressed by its author's username and id.
func (s *PostService) GetPost(ctx context.Context, username string, postID uint) (*models.Post, error) {
	return s.postRepo.GetByAuthorAndID(ctx, username, postID)
}

// FrontPage lists all posts, newest first.
func (s *PostService) FrontPage(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, limit, offset)
}

// GroupPage resolves the group by slug and lists its posts, newest first.
func (s *PostService) GroupPage(ctx context.Context, slug string, limit, offset int) (*models.Group, []*models.Post, int64, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, 0, err
	}
	posts, total, err := s.postRepo.ListByGroup(ctx, group.ID, limit, offset)
	if err != nil {
		return nil, nil, 0, err
	}
	return group, posts, total, nil
}

// AuthorPage lists a single author's posts, newest first.
func (s *PostService) AuthorPage(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}

// FollowPage lists posts by the authors the user follows, newest first.
func (s *PostService) FollowPage(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.postRepo.ListByFollowed(ctx, userID, limit, offset)
}

func (s *PostService) resolveGroup(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewValidationError("Unknown group: " + slug)
		}
		return nil, err
	}
	return &group.ID, nil
}

// saveImage writes an uploaded image under the media root with a generated
// name and returns its media-relative path.
func (s *PostService) saveImage(img *ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	if len(img.Content) == 0 {
		return "", models.NewValidationError("Image file is empty")
	}
	if len(img.Content) > maxImageUploadBytes {
		return "", models.NewValidationError("Image too large (max 10MB)")
	}

	ext := strings.ToLower(filepath.Ext(img.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return "", models.NewValidationError("Unsupported image type")
	}

	dir := filepath.Join(s.mediaRoot, postImageSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", models.NewInternalError(fmt.Errorf("create media dir: %w", err))
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(dir, name), img.Content, 0o644); err != nil {
		return "", models.NewInternalError(fmt.Errorf("write image: %w", err))
	}
	return filepath.ToSlash(filepath.Join(postImageSubdir, name)), nil
}

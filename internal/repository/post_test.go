package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"chronicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "poster")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		post := &models.Post{
			Text:      fmt.Sprintf("post %d", i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, post))
	}

	posts, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 3)

	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt),
			"post ordering must be non-increasing by creation time")
	}
	assert.Equal(t, "post 2", posts[0].Text)
	assert.Equal(t, "post 0", posts[2].Text)
}

func TestPostRepository_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "prolific")
	for i := 0; i < 13; i++ {
		require.NoError(t, repo.Create(ctx, &models.Post{
			Text:     fmt.Sprintf("entry %d", i),
			AuthorID: author.ID,
		}))
	}

	page1, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(13), total)
	assert.Len(t, page1, 10)

	page2, _, err := repo.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Len(t, page2, 3)
}

func TestPostRepository_GetByAuthorAndID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := &models.Post{Text: "mine", AuthorID: alice.ID}
	require.NoError(t, repo.Create(ctx, post))

	found, err := repo.GetByAuthorAndID(ctx, "alice", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
	assert.Equal(t, "alice", found.Author.Username)

	// The same id under another author's name does not resolve.
	_, err = repo.GetByAuthorAndID(ctx, "bob", post.ID)
	assert.True(t, models.IsNotFound(err))

	_ = bob
}

func TestPostRepository_ListByGroupAndAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	cooking := createTestGroup(t, db, "cooking")

	require.NoError(t, repo.Create(ctx, &models.Post{Text: "grouped", AuthorID: alice.ID, GroupID: &cooking.ID}))
	require.NoError(t, repo.Create(ctx, &models.Post{Text: "loose", AuthorID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Post{Text: "other author", AuthorID: bob.ID}))

	grouped, total, err := repo.ListByGroup(ctx, cooking.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, grouped, 1)
	assert.Equal(t, "grouped", grouped[0].Text)

	byAlice, total, err := repo.ListByAuthor(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byAlice, 2)
}

func TestPostRepository_ListByFollowed(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	reader := createTestUser(t, db, "reader")
	followed := createTestUser(t, db, "followed")
	stranger := createTestUser(t, db, "stranger")

	require.NoError(t, postRepo.Create(ctx, &models.Post{Text: "from followed", AuthorID: followed.ID}))
	require.NoError(t, postRepo.Create(ctx, &models.Post{Text: "from stranger", AuthorID: stranger.ID}))
	require.NoError(t, followRepo.Create(ctx, reader.ID, followed.ID))

	posts, total, err := postRepo.ListByFollowed(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "from followed", posts[0].Text)

	// Following nobody yields an empty page, not an error.
	posts, total, err = postRepo.ListByFollowed(ctx, stranger.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, posts)
}

func TestPostRepository_CommentsCount(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	post := &models.Post{Text: "discuss", AuthorID: author.ID}
	require.NoError(t, postRepo.Create(ctx, post))

	for i := 0; i < 2; i++ {
		require.NoError(t, commentRepo.Create(ctx, &models.Comment{
			Text:     fmt.Sprintf("reply %d", i),
			AuthorID: commenter.ID,
			PostID:   &post.ID,
		}))
	}

	found, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.CommentsCount)
}

func TestDeletionPolicies(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	groupRepo := NewGroupRepository(db)
	userRepo := NewUserRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "doomed")
	commenter := createTestUser(t, db, "survivor")
	group := createTestGroup(t, db, "ephemeral")

	post := &models.Post{Text: "in group", AuthorID: author.ID, GroupID: &group.ID}
	require.NoError(t, postRepo.Create(ctx, post))
	comment := &models.Comment{Text: "reply", AuthorID: commenter.ID, PostID: &post.ID}
	require.NoError(t, commentRepo.Create(ctx, comment))
	require.NoError(t, followRepo.Create(ctx, commenter.ID, author.ID))

	// Deleting the group detaches its posts.
	require.NoError(t, groupRepo.Delete(ctx, group.ID))
	detached, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.GroupID)

	// Deleting the post orphans the comment instead of removing it.
	require.NoError(t, postRepo.Delete(ctx, post.ID))
	orphan, err := commentRepo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.PostID)

	// Deleting the author cascades to their remaining rows, including edges.
	post2 := &models.Post{Text: "second", AuthorID: author.ID}
	require.NoError(t, postRepo.Create(ctx, post2))
	require.NoError(t, userRepo.Delete(ctx, author.ID))

	_, err = postRepo.GetByID(ctx, post2.ID)
	assert.True(t, models.IsNotFound(err))
	exists, err := followRepo.Exists(ctx, commenter.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// The commenter's orphaned comment is untouched by any of the above.
	_, err = commentRepo.GetByID(ctx, comment.ID)
	assert.NoError(t, err)
}

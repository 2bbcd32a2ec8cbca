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

func TestCommentRepository_ListByPostOldestFirst(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := &models.Post{Text: "thread", AuthorID: author.ID}
	require.NoError(t, postRepo.Create(ctx, post))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Comment{
			Text:      fmt.Sprintf("reply %d", i),
			AuthorID:  author.ID,
			PostID:    &post.ID,
			CreatedAt: base.Add(time.Duration(2-i) * time.Minute),
		}))
	}

	comments, total, err := repo.ListByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, comments, 3)

	// Oldest comment leads the thread.
	assert.Equal(t, "reply 2", comments[0].Text)
	assert.Equal(t, "reply 0", comments[2].Text)
	assert.Equal(t, "author", comments[0].Author.Username)
}

func TestCommentRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 9999)
	assert.True(t, models.IsNotFound(err))
}

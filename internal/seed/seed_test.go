package seed

import (
	"fmt"
	"strings"
	"testing"

	"chronicle/internal/database"
	"chronicle/internal/models"
	"chronicle/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeed(t *testing.T) {
	db := newTestDB(t)

	opts := Options{
		NumUsers:    5,
		NumGroups:   2,
		NumPosts:    10,
		NumComments: 15,
		NumFollows:  8,
	}
	require.NoError(t, Seed(db, opts))

	var users, groups, posts, comments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)

	assert.EqualValues(t, opts.NumUsers, users)
	assert.EqualValues(t, opts.NumGroups, groups)
	assert.EqualValues(t, opts.NumPosts, posts)
	assert.EqualValues(t, opts.NumComments, comments)

	// No self-follow edges even from random pairing.
	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	// Group slugs pass the same validation the app applies.
	var seededGroups []models.Group
	require.NoError(t, db.Find(&seededGroups).Error)
	for _, g := range seededGroups {
		assert.NoError(t, validation.ValidateGroupSlug(g.Slug), "slug %q", g.Slug)
	}
}

func TestSeedCleanIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	opts := Options{NumUsers: 3, NumGroups: 1, NumPosts: 5, NumComments: 5, NumFollows: 3, Clean: true}
	require.NoError(t, Seed(db, opts))
	require.NoError(t, Seed(db, opts))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, opts.NumUsers, users)
}

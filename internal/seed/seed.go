// Package seed provides database seeding utilities for development and
// testing. Not meant for production data.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"chronicle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	NumComments int
	NumFollows  int
	Clean       bool
}

// DefaultOptions is a reasonable development data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:    25,
		NumGroups:   6,
		NumPosts:    120,
		NumComments: 300,
		NumFollows:  60,
		Clean:       true,
	}
}

// Seed populates the database with fake users, groups, posts, comments and
// follow edges.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.Clean {
		if err := Clear(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	slog.Info("seeded users", "count", len(users))

	groups, err := createGroups(db, opts.NumGroups)
	if err != nil {
		return fmt.Errorf("create groups: %w", err)
	}
	slog.Info("seeded groups", "count", len(groups))

	posts, err := createPosts(db, r, users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	slog.Info("seeded posts", "count", len(posts))

	if err := createComments(db, r, users, posts, opts.NumComments); err != nil {
		return fmt.Errorf("create comments: %w", err)
	}
	if err := createFollows(db, r, users, opts.NumFollows); err != nil {
		return fmt.Errorf("create follows: %w", err)
	}

	return nil
}

// Clear removes all seeded data, children first so FKs never block.
func Clear(db *gorm.DB) error {
	for _, model := range []any{
		&models.Follow{},
		&models.Comment{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	// Every seeded account shares one password; hash it once.
	hash, err := bcrypt.GenerateFromPassword([]byte("passw0rd1"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		if len(username) > 150 {
			username = username[:150]
		}
		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Password: string(hash),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createGroups(db *gorm.DB, n int) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, n)
	for i := 0; i < n; i++ {
		noun := strings.ToLower(gofakeit.NounAbstract())
		group := &models.Group{
			Title:       gofakeit.BookTitle(),
			Slug:        fmt.Sprintf("%s-%d", slugify(noun), i),
			Description: gofakeit.Sentence(12),
		}
		if err := db.Create(group).Error; err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func createPosts(db *gorm.DB, r *rand.Rand, users []*models.User, groups []*models.Group, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			Text:      gofakeit.Paragraph(1, 3, 8, "\n"),
			AuthorID:  author.ID,
			CreatedAt: spreadBack(r, 90),
		}
		if len(groups) > 0 && r.Intn(10) < 6 {
			post.GroupID = &groups[r.Intn(len(groups))].ID
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post, n int) error {
	for i := 0; i < n; i++ {
		post := posts[r.Intn(len(posts))]
		comment := &models.Comment{
			Text:      gofakeit.Sentence(10),
			AuthorID:  users[r.Intn(len(users))].ID,
			PostID:    &post.ID,
			CreatedAt: post.CreatedAt.Add(time.Duration(r.Intn(72)) * time.Hour),
		}
		if err := db.Create(comment).Error; err != nil {
			return err
		}
	}
	return nil
}

func createFollows(db *gorm.DB, r *rand.Rand, users []*models.User, n int) error {
	for i := 0; i < n; i++ {
		reader := users[r.Intn(len(users))]
		author := users[r.Intn(len(users))]
		if reader.ID == author.ID {
			continue
		}
		follow := &models.Follow{UserID: reader.ID, AuthorID: author.ID}
		// Random pairs collide; absorb duplicates the same way the app does.
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error; err != nil {
			return err
		}
	}
	return nil
}

func spreadBack(r *rand.Rand, maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(r.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(r.Intn(60)) * time.Minute)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "topic"
	}
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}

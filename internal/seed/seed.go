// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	NumComments int
	NumFollows  int
	ShouldClean bool
}

var groupTopics = []string{
	"Travel", "Cooking", "Photography", "Books", "Music",
	"Cycling", "Gardening", "Film", "History", "Programming",
	"Hiking", "Poetry", "Chess", "Astronomy", "Coffee",
}

// Run populates the database with demo users, groups, posts, comments
// and follows. Counts default to a small but browsable data set.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumGroups <= 0 {
		opts.NumGroups = 5
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 50
	}
	if opts.NumComments <= 0 {
		opts.NumComments = 100
	}
	if opts.NumFollows <= 0 {
		opts.NumFollows = 20
	}
	if opts.NumGroups > len(groupTopics) {
		opts.NumGroups = len(groupTopics)
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("failed to clean tables: %w", err)
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return err
	}
	groups, err := seedGroups(db, opts.NumGroups)
	if err != nil {
		return err
	}
	posts, err := seedPosts(db, r, users, groups, opts.NumPosts)
	if err != nil {
		return err
	}
	if err := seedComments(db, r, users, posts, opts.NumComments); err != nil {
		return err
	}
	if err := seedFollows(db, r, users, opts.NumFollows); err != nil {
		return err
	}

	slog.Info("Seeding complete",
		"users", len(users),
		"groups", len(groups),
		"posts", len(posts),
		"comments", opts.NumComments,
	)
	return nil
}

func clean(db *gorm.DB) error {
	// Children before parents.
	for _, model := range []interface{}{
		&models.Comment{}, &models.Follow{}, &models.Post{},
		&models.Group{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]*models.User, error) {
	// One shared password keeps demo logins simple.
	hash, err := bcrypt.GenerateFromPassword([]byte("inkwell-demo"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := strings.ToLower(gofakeit.Username())
		user := &models.User{
			Username: fmt.Sprintf("%s%d", username, i),
			Email:    fmt.Sprintf("%s%d@example.com", username, i),
			Password: string(hash),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func seedGroups(db *gorm.DB, n int) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, n)
	for i := 0; i < n; i++ {
		topic := groupTopics[i]
		group := &models.Group{
			Title:       topic,
			Slug:        strings.ToLower(topic),
			Description: gofakeit.Sentence(12),
		}
		if err := db.Create(group).Error; err != nil {
			return nil, fmt.Errorf("failed to seed group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func seedPosts(db *gorm.DB, r *rand.Rand, users []*models.User, groups []*models.Group, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:     gofakeit.Paragraph(1, 3, 8, "\n"),
			AuthorID: users[r.Intn(len(users))].ID,
		}
		// Roughly a third of posts stay ungrouped.
		if len(groups) > 0 && r.Intn(3) > 0 {
			post.GroupID = &groups[r.Intn(len(groups))].ID
		}
		posts = append(posts, post)
	}

	repo := repository.NewPostRepository(db)
	if err := repo.CreateBatch(context.Background(), posts); err != nil {
		return nil, fmt.Errorf("failed to seed posts: %w", err)
	}
	return posts, nil
}

func seedComments(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post, n int) error {
	for i := 0; i < n; i++ {
		comment := &models.Comment{
			PostID:   posts[r.Intn(len(posts))].ID,
			AuthorID: users[r.Intn(len(users))].ID,
			Text:     gofakeit.Sentence(10),
		}
		if err := db.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to seed comment: %w", err)
		}
	}
	return nil
}

func seedFollows(db *gorm.DB, r *rand.Rand, users []*models.User, n int) error {
	for i := 0; i < n; i++ {
		follower := users[r.Intn(len(users))]
		author := users[r.Intn(len(users))]
		if follower.ID == author.ID {
			continue
		}
		follow := models.Follow{UserID: follower.ID, AuthorID: author.ID}
		// Random pairs collide, so upsert instead of failing.
		if err := db.Where(&follow).FirstOrCreate(&follow).Error; err != nil {
			return fmt.Errorf("failed to seed follow: %w", err)
		}
	}
	return nil
}

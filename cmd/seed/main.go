// Command seed populates the database with demo content.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	groups := flag.Int("groups", 5, "number of groups to create")
	posts := flag.Int("posts", 50, "number of posts to create")
	comments := flag.Int("comments", 100, "number of comments to create")
	follows := flag.Int("follows", 20, "number of follow pairs to attempt")
	clean := flag.Bool("clean", false, "delete existing rows first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *users,
		NumGroups:   *groups,
		NumPosts:    *posts,
		NumComments: *comments,
		NumFollows:  *follows,
		ShouldClean: *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Database seeded")
}

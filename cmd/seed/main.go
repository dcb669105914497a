// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "Number of users to create")
	postsPerUser := flag.Int("posts-per-user", 5, "Number of posts per user")
	maxDays := flag.Int("max-days", 90, "Spread post timestamps over this many past days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *shouldClean {
		if err := seed.ClearAll(db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	opts := seed.Options{
		Users:        *users,
		PostsPerUser: *postsPerUser,
		MaxDays:      *maxDays,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

// Command seed loads sample data from JSON files into the database or wipes
// it.
//
//	go run ./cmd/seed import --dir _data
//	go run ./cmd/seed destroy
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kevinaaaquil/devblog/backend/config"
	"github.com/kevinaaaquil/devblog/backend/models"
	"github.com/kevinaaaquil/devblog/backend/store"
	"github.com/kevinaaaquil/devblog/backend/utils"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// seedUser carries the plain password, which models.User never decodes.
type seedUser struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
	Password string             `json:"password"`
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "seed",
		Usage: "import or destroy sample data",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "insert users, topics and blogs from JSON files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: "_data", Usage: "directory holding users.json, topics.json and blogs.json"},
				},
				Action: func(c *cli.Context) error {
					return withDB(c.Context, func(ctx context.Context, db *store.DB) error {
						return importData(ctx, db, c.String("dir"))
					})
				},
			},
			{
				Name:  "destroy",
				Usage: "delete every document of every collection",
				Action: func(c *cli.Context) error {
					return withDB(c.Context, func(ctx context.Context, db *store.DB) error {
						if err := db.DeleteAll(ctx); err != nil {
							return err
						}
						log.Println("Data destroyed")
						return nil
					})
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withDB(ctx context.Context, fn func(context.Context, *store.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}
	defer db.Disconnect(context.Background())
	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}
	return fn(ctx, db)
}

// seedStore is the part of *store.DB that importData writes through.
type seedStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	InsertTopic(ctx context.Context, topic *models.Topic) error
	InsertBlog(ctx context.Context, blog *models.Blog) error
}

func importData(ctx context.Context, db seedStore, dir string) error {
	var users []seedUser
	var topics []models.Topic
	var blogs []models.Blog
	for name, dst := range map[string]any{"users.json": &users, "topics.json": &topics, "blogs.json": &blogs} {
		if err := readJSON(filepath.Join(dir, name), dst); err != nil {
			return err
		}
	}

	for _, su := range users {
		hash, err := utils.HashPassword(su.Password)
		if err != nil {
			return err
		}
		u := &models.User{
			ID:       su.ID,
			Name:     su.Name,
			Email:    strings.ToLower(su.Email),
			Role:     su.Role,
			Password: hash,
		}
		if err := db.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", su.Email, err)
		}
	}
	for i := range topics {
		if err := db.InsertTopic(ctx, &topics[i]); err != nil {
			return fmt.Errorf("topic %s: %w", topics[i].Name, err)
		}
	}
	for i := range blogs {
		if err := db.InsertBlog(ctx, &blogs[i]); err != nil {
			return fmt.Errorf("blog %s: %w", blogs[i].Title, err)
		}
	}
	log.Printf("Data imported: %d users, %d topics, %d blogs", len(users), len(topics), len(blogs))
	return nil
}

func readJSON(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/config"
	"github.com/PhucHuuDang/GraphQL/pkg/database"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/models"
	"github.com/PhucHuuDang/GraphQL/pkg/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var defaultCategories = []string{"Engineering", "Go", "GraphQL", "DevOps", "Career"}

type samplePost struct {
	title       string
	slug        string
	description string
	category    string
	tags        []string
	priority    bool
}

var samplePosts = []samplePost{
	{"Getting started with GraphQL in Go", "getting-started-with-graphql-in-go", "Schemas, resolvers and envelopes from scratch.", "GraphQL", []string{"graphql", "go"}, true},
	{"Soft deletes without surprises", "soft-deletes-without-surprises", "Explicit flags versus ORM scopes.", "Engineering", []string{"database", "gorm"}, false},
	{"Shipping a blog backend with Docker", "shipping-a-blog-backend-with-docker", "From docker compose to production.", "DevOps", []string{"docker", "deployment"}, false},
}

type seedOptions struct {
	adminName     string
	adminEmail    string
	adminPassword string
}

func main() {
	var opts seedOptions
	flag.StringVar(&opts.adminName, "admin-name", "Blog Admin", "display name of the seeded admin")
	flag.StringVar(&opts.adminEmail, "admin-email", "admin@blog.local", "email of the seeded admin")
	flag.StringVar(&opts.adminPassword, "admin-password", "change-me-please", "password of the seeded admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if err := seedDatabase(context.Background(), db, opts, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase is idempotent: every row is upserted on its natural key.
func seedDatabase(ctx context.Context, db *gorm.DB, opts seedOptions, log *logger.Logger) error {
	admin, err := seedAdmin(ctx, db, opts)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.Info("Admin author: %s (%s)", admin.Name, *admin.Email)

	categories, err := seedCategories(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	log.Info("Seeded %d categories", len(categories))

	for _, p := range samplePosts {
		if err := seedPost(ctx, db, admin.ID, categories[p.category], p); err != nil {
			return fmt.Errorf("failed to seed post %q: %w", p.slug, err)
		}
		log.Info("Seeded post: %s", p.slug)
	}
	return nil
}

func seedAdmin(ctx context.Context, db *gorm.DB, opts seedOptions) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(opts.adminEmail))
	users := repository.New[models.User](db)
	accounts := repository.New[models.Account](db)

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	password := string(hash)

	var admin *models.User
	err = users.Transaction(ctx, func(ctx context.Context) error {
		admin, err = users.Upsert(ctx, repository.UpsertInput[models.User]{
			Where: repository.NewQuery[models.User]().Eq("email", email),
			Create: &models.User{
				Name:          opts.adminName,
				Email:         &email,
				EmailVerified: true,
				Role:          models.RoleAdmin,
				IsActive:      true,
				IsVerified:    true,
				Designation:   "Editor in chief",
			},
			Update: map[string]interface{}{"role": models.RoleAdmin, "is_active": true},
		})
		if err != nil {
			return err
		}

		_, err = accounts.Upsert(ctx, repository.UpsertInput[models.Account]{
			Where: repository.NewQuery[models.Account]().
				Eq("provider_id", models.ProviderCredential).
				Eq("account_id", admin.ID),
			Create: &models.Account{
				AccountID:  admin.ID,
				ProviderID: models.ProviderCredential,
				UserID:     admin.ID,
				Password:   &password,
			},
			Update: map[string]interface{}{"password": password},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// seedCategories returns category IDs keyed by name.
func seedCategories(ctx context.Context, db *gorm.DB) (map[string]string, error) {
	categories := repository.New[models.Category](db)

	inputs := make([]repository.UpsertInput[models.Category], 0, len(defaultCategories))
	for _, name := range defaultCategories {
		inputs = append(inputs, repository.UpsertInput[models.Category]{
			Where:  repository.NewQuery[models.Category]().Eq("name", name),
			Create: &models.Category{Name: name},
			Update: map[string]interface{}{"name": name},
		})
	}

	rows, err := categories.BulkUpsert(ctx, inputs)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(rows))
	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}

func seedPost(ctx context.Context, db *gorm.DB, authorID, categoryID string, p samplePost) error {
	posts := repository.New[models.Post](db)
	now := time.Now()

	var category *string
	if categoryID != "" {
		category = &categoryID
	}
	content := datatypes.JSON(fmt.Sprintf(`{"blocks":[{"type":"paragraph","text":%q}]}`, p.description))

	_, err := posts.Upsert(ctx, repository.UpsertInput[models.Post]{
		Where: repository.NewQuery[models.Post]().Eq("slug", p.slug),
		Create: &models.Post{
			Title:       p.title,
			Slug:        p.slug,
			Description: p.description,
			Content:     content,
			Tags:        datatypes.JSONSlice[string](p.tags),
			Status:      models.StatusPublished,
			IsPublished: true,
			IsPriority:  p.priority,
			AuthorID:    authorID,
			CategoryID:  category,
			PublishedAt: &now,
		},
		Update: map[string]interface{}{"title": p.title, "description": p.description},
	})
	return err
}

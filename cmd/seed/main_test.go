package main

import (
	"context"
	"io"
	"testing"

	"github.com/PhucHuuDang/GraphQL/pkg/database/dbtest"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDatabase_Idempotent(t *testing.T) {
	db := dbtest.New(t)
	log := logger.NewWithOptions(logger.Options{Writer: io.Discard})
	opts := seedOptions{adminName: "Admin", adminEmail: "Admin@Blog.local", adminPassword: "correct-horse"}

	require.NoError(t, seedDatabase(context.Background(), db, opts, log))
	require.NoError(t, seedDatabase(context.Background(), db, opts, log))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@blog.local", *users[0].Email)
	assert.Equal(t, models.RoleAdmin, users[0].Role)

	var account models.Account
	require.NoError(t, db.Where("user_id = ? AND provider_id = ?", users[0].ID, models.ProviderCredential).First(&account).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*account.Password), []byte("correct-horse")))

	var categories int64
	db.Model(&models.Category{}).Count(&categories)
	assert.EqualValues(t, len(defaultCategories), categories)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	assert.Len(t, posts, len(samplePosts))
	for _, p := range posts {
		assert.Equal(t, models.StatusPublished, p.Status)
		assert.NotNil(t, p.CategoryID)
	}
}

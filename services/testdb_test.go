package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thuanvt/medinfo-backend/models"
)

// DB SQLite in-memory cho test service, mỗi test một DB riêng.
// Giới hạn một connection vì mỗi connection :memory: là một DB độc lập.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Article{},
		&models.Comment{},
	))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		FullName: name,
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestArticle(t *testing.T, db *gorm.DB, title string, author *models.User) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:     title,
		Slug:      uuid.NewString(), // test không quan tâm slug thật
		Content:   "nội dung",
		Status:    "published",
		CreatedBy: author.ID,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

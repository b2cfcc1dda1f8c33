package implementation

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"machinaka-be/internal/model"
	"machinaka-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestUserRepositoryUpdatePersistsClearedFields(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	now := time.Now()
	user := &model.User{
		ID:             uuid.NewString(),
		Username:       "yuki",
		Age:            24,
		Gender:         "female",
		Interests:      []string{"coffee"},
		SeekingType:    model.SeekingFriendship,
		ProfilePicture: "http://example.com/p.jpg",
		Bio:            "original bio",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.Create(ctx, user))
	t.Cleanup(func() {
		db.Where("id = ?", user.ID).Delete(&userRow{})
	})

	// Clearing optional fields to "" must stick, same as the in-memory
	// implementation which replaces the whole record.
	user.Bio = ""
	user.ProfilePicture = ""
	user.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Bio)
	assert.Empty(t, found.ProfilePicture)
	assert.Equal(t, "yuki", found.Username)
}

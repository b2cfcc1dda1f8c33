package main

import (
	"context"
	"log"
	"os"
	"time"

	"machinaka-be/internal/model"
	"machinaka-be/internal/repository/implementation"
	"machinaka-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	if err := implementation.AutoMigrate(db); err != nil {
		log.Fatal("Error: Failed to migrate:", err)
	}

	log.Println("Seeding demo users...")

	now := time.Now()
	users := []model.User{
		{ID: uuid.NewString(), Username: "yuki", Age: 24, Gender: "female", Interests: []string{"coffee", "photography"}, SeekingType: model.SeekingFriendship, Bio: "Usually at the cafe near the station.", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Username: "kenta", Age: 27, Gender: "male", Interests: []string{"running", "board games"}, SeekingType: model.SeekingHobby, Bio: "Morning runner, evening strategist.", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Username: "aoi", Age: 22, Gender: "other", Interests: []string{"reading", "jazz"}, SeekingType: model.SeekingRomance, Bio: "Library regular.", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Username: "haruto", Age: 31, Gender: "male", Interests: []string{"cycling"}, SeekingType: model.SeekingFriendship, CreatedAt: now, UpdatedAt: now},
	}

	repo := implementation.NewUserRepository(db)
	ctx := context.Background()
	for _, u := range users {
		u := u
		if err := repo.Create(ctx, &u); err != nil {
			log.Printf("Failed to seed user '%s': %v", u.Username, err)
			continue
		}
		log.Printf("Seeded user '%s' (%s)", u.Username, u.ID)
	}

	log.Println("Seeding complete.")
}

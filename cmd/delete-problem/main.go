package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"codeclash/internal/database"
	"codeclash/internal/models"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: go run main.go <problem_title>")
		fmt.Println("Example: go run main.go 'Two Sum'")
		os.Exit(1)
	}

	problemTitle := os.Args[1]

	config := database.Config{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "codeclash"),
		Password: getEnvOrDefault("DB_PASSWORD", ""),
		DBName:   getEnvOrDefault("DB_NAME", "codeclash"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(config)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	ctx := context.Background()
	problemRepo := database.NewProblemRepository(db)

	problem, err := problemRepo.GetProblemByTitle(ctx, problemTitle)
	if err != nil {
		log.Fatalf("Failed to find problem '%s': %v", problemTitle, err)
	}
	if problem == nil {
		log.Fatalf("Problem '%s' not found", problemTitle)
	}

	fmt.Printf("Found problem: %s (ID: %s)\n", problem.Title, problem.ID)

	var matchCount int64
	err = db.WithContext(ctx).Model(&models.Match{}).Where("problem_id = ?", problem.ID).Count(&matchCount).Error
	if err != nil {
		log.Fatalf("Failed to check match usage: %v", err)
	}
	if matchCount > 0 {
		fmt.Printf("Warning: Problem is referenced by %d matches. Proceeding with deletion...\n", matchCount)
	}

	if err := problemRepo.DeleteProblem(ctx, problem.ID); err != nil {
		log.Fatalf("Failed to delete problem: %v", err)
	}

	fmt.Printf("Successfully deleted problem '%s' and all associated test cases\n", problemTitle)
}

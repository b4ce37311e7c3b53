package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"codeclash/internal/database"
	"codeclash/internal/models"

	"github.com/google/uuid"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

type ProblemMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

type ProblemTestCase struct {
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	TestOrder      int32  `json:"test_order"`
}

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: go run main.go <problem_folder_path>")
		fmt.Println("Example: go run main.go /path/to/data/two-sum")
		os.Exit(1)
	}

	problemPath := os.Args[1]
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
	if err := importProblem(problemPath, db); err != nil {
		log.Fatalf("Failed to import problem: %v", err)
	}

	fmt.Printf("Successfully imported problem from %s\n", problemPath)
}

func importProblem(problemPath string, db *database.GormDB) error {
	metadataPath := filepath.Join(problemPath, "metadata.json")
	metadataData, err := os.ReadFile(metadataPath)
	if err != nil {
		return fmt.Errorf("failed to read metadata.json: %v", err)
	}

	var metadata ProblemMetadata
	if err := json.Unmarshal(metadataData, &metadata); err != nil {
		return fmt.Errorf("failed to parse metadata.json: %v", err)
	}

	testCasesPath := filepath.Join(problemPath, "test_cases.json")
	testCasesData, err := os.ReadFile(testCasesPath)
	if err != nil {
		return fmt.Errorf("failed to read test_cases.json: %v", err)
	}

	var testCases []ProblemTestCase
	if err := json.Unmarshal(testCasesData, &testCases); err != nil {
		return fmt.Errorf("failed to parse test_cases.json: %v", err)
	}

	difficulty := models.Difficulty(strings.ToLower(metadata.Difficulty))
	if !difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q (want easy, medium or hard)", metadata.Difficulty)
	}

	problemRepo := database.NewProblemRepository(db)
	ctx := context.Background()

	if existing, err := problemRepo.GetProblemByTitle(ctx, metadata.Title); err != nil {
		return fmt.Errorf("failed to check for existing problem: %v", err)
	} else if existing != nil {
		return fmt.Errorf("problem %q already exists (ID: %s)", metadata.Title, existing.ID)
	}

	problem := &models.Problem{
		ID:          uuid.New(),
		Title:       metadata.Title,
		Description: metadata.Description,
		Difficulty:  difficulty,
	}

	if err := db.DB.Create(&problem).Error; err != nil {
		return fmt.Errorf("failed to create problem: %v", err)
	}

	fmt.Printf("Created problem: %s (ID: %s)\n", problem.Title, problem.ID.String())

	for _, tc := range testCases {
		testCase := &models.TestCase{
			ID:             uuid.New(),
			ProblemID:      problem.ID,
			Stdin:          tc.Stdin,
			ExpectedOutput: tc.ExpectedOutput,
			TestOrder:      tc.TestOrder,
		}

		if err := db.DB.Create(&testCase).Error; err != nil {
			return fmt.Errorf("failed to create test case %d: %v", tc.TestOrder, err)
		}
	}

	fmt.Printf("Created %d test cases for problem %s\n", len(testCases), problem.Title)
	return nil
}

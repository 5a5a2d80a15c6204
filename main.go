package main

import (
	"context"
	"log"
	"os"

	"covsim/adapters/rng"
	"covsim/app"
	"covsim/internal"
	"covsim/internal/config"
	"covsim/internal/report"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))

	studyService := app.NewStudyService(rng.New())
	result, err := studyService.RunStudy(context.Background(), app.StudyRequest{
		Records: appConfig.Study.Records,
		Spread:  appConfig.Study.Spread,
		Seed:    appConfig.Study.Seed,
	})
	if err != nil {
		logger.Error("study failed: %v", err)
		os.Exit(1)
	}

	logger.Info("study %s completed in %dms", result.StudyID.String(), result.RuntimeMs)

	if err := report.Render(os.Stdout, result); err != nil {
		logger.Error("report rendering failed: %v", err)
		os.Exit(1)
	}
}

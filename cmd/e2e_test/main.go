// Manual end-to-end run against a real job URL. Not an automated test:
// it opens a visible browser so the fill can be watched.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"go-autoapply-engine/internal/ai"
	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/docs"
	"go-autoapply-engine/internal/engine"
	"go-autoapply-engine/internal/models"
	"go-autoapply-engine/internal/responder"
	"go-autoapply-engine/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		godotenv.Load("../../.env")
	}

	jobURL := os.Getenv("E2E_JOB_URL")
	apiKey := os.Getenv("GROQ_API_KEY")
	if jobURL == "" || apiKey == "" {
		log.Fatal("Missing E2E_JOB_URL or GROQ_API_KEY")
	}

	profilePath := "configs/profile.json"
	if _, err := os.Stat(profilePath); os.IsNotExist(err) {
		profilePath = "../../configs/profile.json"
	}
	data, err := os.ReadFile(profilePath)
	if err != nil {
		log.Fatalf("Could not read profile: %v", err)
	}
	var profile models.ApplicantProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		log.Fatalf("Could not parse profile: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	aiClient := ai.NewGrokClient(apiKey)
	job := models.JobContext{Title: os.Getenv("E2E_JOB_TITLE"), Company: os.Getenv("E2E_COMPANY")}

	session := browser.NewSession(browser.Options{
		Headless:    false, // watch the run
		Screenshots: utils.NewScreenshotStore("logs/screenshots"),
	})
	controller := engine.NewController(
		session,
		docs.NewGenerator("templates/resume.html", "templates/cover_letter.html"),
		responder.New(aiClient, ""),
		engine.WithStatusCallback(func(s *models.AutoApplySession) {
			log.Printf("📶 %3d%% [%s] %s", s.Progress, s.Status, s.CurrentStep)
		}),
	)

	result := controller.Apply(ctx, engine.ApplyInput{
		JobURL:          jobURL,
		Profile:         profile,
		Job:             job,
		CoverLetterText: docs.WriteCoverLetterText(ctx, aiClient, "", profile, job),
	})

	log.Printf("✅ E2E run finished: %s", result.Status)
	for _, shot := range result.Screenshots {
		log.Printf("🖼 %s", shot)
	}
	if result.Error != "" {
		log.Printf("⚠️ %s", result.Error)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-autoapply-engine/internal/ai"
	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/config"
	"go-autoapply-engine/internal/database"
	"go-autoapply-engine/internal/docs"
	"go-autoapply-engine/internal/engine"
	"go-autoapply-engine/internal/models"
	"go-autoapply-engine/internal/reporter"
	"go-autoapply-engine/internal/responder"
	"go-autoapply-engine/utils"
)

func main() {
	jobURL := flag.String("url", "", "URL of the job posting or application form")
	jobTitle := flag.String("title", "", "Job title, used in documents and answers")
	company := flag.String("company", "", "Company name")
	description := flag.String("description", "", "Job description text (optional)")
	flag.Parse()

	if *jobURL == "" {
		log.Fatal("❌ -url is required")
	}

	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Profile: %s", cfg.ProfilePath)

	//load applicant profile
	profile, err := loadProfile(cfg.ProfilePath)
	if err != nil {
		log.Fatalf("❌ Failed to load profile: %v", err)
	}
	log.Printf("👤 Applicant: %s (%s)", profile.FullName, profile.Email)

	job := models.JobContext{
		Title:       *jobTitle,
		Company:     *company,
		Description: *description,
	}

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("🚀 Starting AutoApply run...")

	//init AI client and responder
	aiClient := ai.NewGrokClient(cfg.GroqAPIKey)
	answerer := responder.New(aiClient, cfg.GroqModel)

	//write the cover letter before the browser opens
	coverLetterText := docs.WriteCoverLetterText(ctx, aiClient, cfg.GroqModel, profile, job)
	log.Printf("✉️ Cover letter ready (%d chars)", len(coverLetterText))

	//init document renderer
	renderer := docs.NewGenerator(cfg.ResumeTemplate, cfg.CoverLetterTemplate)

	//init browser session
	session := browser.NewSession(browser.Options{
		Headless:    cfg.Headless,
		CookiesPath: cfg.CookiesPath,
		Screenshots: utils.NewScreenshotStore(cfg.ScreenshotDir),
	})

	controller := engine.NewController(session, renderer, answerer,
		engine.WithStatusCallback(func(s *models.AutoApplySession) {
			log.Printf("📶 %3d%% [%s] %s", s.Progress, s.Status, s.CurrentStep)
		}))

	result := controller.Apply(ctx, engine.ApplyInput{
		JobURL:          *jobURL,
		Profile:         profile,
		Job:             job,
		CoverLetterText: coverLetterText,
	})

	log.Printf("🏁 Run %s finished: %s (%d/%d fields filled)",
		result.ID, result.Status, result.FieldsFilled, result.FieldsTotal)
	if result.Error != "" {
		log.Printf("⚠️ %s", result.Error)
	}

	//persist the run record if a database is configured
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Database unavailable, skipping persistence: %v", err)
		} else {
			defer repo.Close()
			if err := repo.SaveSession(ctx, result); err != nil {
				log.Printf("⚠️ Failed to save session: %v", err)
			} else {
				log.Printf("💾 Session saved to database")
			}
		}
	}

	//send the run summary to telegram if configured
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := reporter.NewTelegramReporter(cfg)
		if err != nil {
			log.Printf("⚠️ Telegram unavailable: %v", err)
		} else if err := tg.SendRunSummary(result); err != nil {
			log.Printf("⚠️ Failed to send telegram summary: %v", err)
		}
	}

	saveSession(result)
}

func loadProfile(path string) (models.ApplicantProfile, error) {
	var profile models.ApplicantProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("could not read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if profile.FullName == "" || profile.Email == "" {
		return profile, fmt.Errorf("profile must include full_name and email")
	}
	return profile, nil
}

func saveSession(session *models.AutoApplySession) {
	//create logs directory if not exists
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	//gen filename: apply-<session id>.json
	filePath := filepath.Join(logDir, fmt.Sprintf("apply-%s.json", session.ID))

	data, err := json.MarshalIndent(session, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal session to JSON: %v", err)
		return
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write session file: %v", err)
		return
	}

	log.Printf("📁 Run record saved to %s", filePath)
}

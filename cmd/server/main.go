package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-autoapply-engine/internal/ai"
	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/config"
	"go-autoapply-engine/internal/database"
	"go-autoapply-engine/internal/docs"
	"go-autoapply-engine/internal/engine"
	"go-autoapply-engine/internal/models"
	"go-autoapply-engine/internal/responder"
	"go-autoapply-engine/utils"
)

type applyRequest struct {
	JobURL          string                  `json:"job_url" binding:"required"`
	Profile         models.ApplicantProfile `json:"profile" binding:"required"`
	Job             models.JobContext       `json:"job"`
	CoverLetterText string                  `json:"cover_letter_text"`
}

func main() {
	cfg := config.Load()

	var repo *database.Repository
	if cfg.DatabaseURL != "" {
		var err error
		repo, err = database.ConnectDB(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Database connection failed: %v", err)
		}
		defer repo.Close()
	}

	aiClient := ai.NewGrokClient(cfg.GroqAPIKey)

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "AutoApply Engine API is running!",
			"status":  "healthy",
		})
	})

	// One synchronous apply run per request. The browser session lives and
	// dies inside the handler.
	r.POST("/apply", func(c *gin.Context) {
		var req applyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Minute)
		defer cancel()

		coverLetterText := req.CoverLetterText
		if coverLetterText == "" {
			coverLetterText = docs.WriteCoverLetterText(ctx, aiClient, cfg.GroqModel, req.Profile, req.Job)
		}

		session := browser.NewSession(browser.Options{
			Headless:    cfg.Headless,
			CookiesPath: cfg.CookiesPath,
			Screenshots: utils.NewScreenshotStore(cfg.ScreenshotDir),
		})
		controller := engine.NewController(
			session,
			docs.NewGenerator(cfg.ResumeTemplate, cfg.CoverLetterTemplate),
			responder.New(aiClient, cfg.GroqModel),
		)

		result := controller.Apply(ctx, engine.ApplyInput{
			JobURL:          req.JobURL,
			Profile:         req.Profile,
			Job:             req.Job,
			CoverLetterText: coverLetterText,
		})

		if repo != nil {
			if err := repo.SaveSession(ctx, result); err != nil {
				log.Printf("⚠️ Failed to save session %s: %v", result.ID, err)
			}
		}

		c.JSON(http.StatusOK, result)
	})

	r.GET("/sessions/:id", func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
			return
		}
		session, err := repo.GetSession(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, session)
	})

	r.GET("/sessions", func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 {
			limit = 20
		}
		sessions, err := repo.ListRecentSessions(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
	})

	log.Printf("Server listening on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

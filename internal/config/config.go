// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GroqAPIKey string `yaml:"groq_api_key" env:"GROQ_API_KEY"`
	GroqModel  string `yaml:"groq_model"`

	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	//Browser
	Headless    bool   `yaml:"headless"`
	CookiesPath string `yaml:"cookies_path"`

	//Paths
	ProfilePath         string `yaml:"profile_path"`
	ResumeTemplate      string `yaml:"resume_template"`
	CoverLetterTemplate string `yaml:"cover_letter_template"`
	ScreenshotDir       string `yaml:"screenshot_dir"`

	//Server
	ServerAddr string `yaml:"server_addr"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{Headless: true}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.GroqAPIKey = key
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.GroqModel == "" {
		cfg.GroqModel = "llama-3.3-70b-versatile"
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = "configs/profile.json"
	}
	if cfg.ResumeTemplate == "" {
		cfg.ResumeTemplate = "templates/resume.html"
	}
	if cfg.CoverLetterTemplate == "" {
		cfg.CoverLetterTemplate = "templates/cover_letter.html"
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "logs/screenshots"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}

	//Validate required fields. The AI key is the only hard requirement:
	//telegram and the database are optional integrations.
	if cfg.GroqAPIKey == "" {
		log.Fatal("GROQ_API_KEY is required")
	}

	return cfg
}

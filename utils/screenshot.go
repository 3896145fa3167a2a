package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-autoapply-engine/internal/models"
)

var unsafeLabelChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// ScreenshotStore captures page screenshots as PNG files and hands back
// opaque references to them.
type ScreenshotStore struct {
	outputDir string
}

func NewScreenshotStore(outputDir string) *ScreenshotStore {
	if outputDir == "" {
		outputDir = filepath.Join(".", "logs", "screenshots")
	}
	os.MkdirAll(outputDir, 0755)
	return &ScreenshotStore{outputDir: outputDir}
}

// Capture takes a full-page screenshot labeled for the current step.
func (s *ScreenshotStore) Capture(page playwright.Page, label string) (models.ImageRef, error) {
	safe := unsafeLabelChars.ReplaceAllString(strings.ToLower(label), "-")
	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", safe, timestamp))

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		log.Printf("⚠️ Failed to capture screenshot %q: %v", label, err)
		return "", err
	}
	return models.ImageRef(path), nil
}

package utils

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// SmoothScroll scrolls through the page to trigger lazily rendered form
// sections before they are analyzed.
func SmoothScroll(page playwright.Page) {
	page.Mouse().Wheel(0, 500)
	RandomDelay(300, 700)

	page.Mouse().Wheel(0, -200)
	RandomDelay(200, 500)

	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	RandomDelay(300, 600)
	page.Evaluate("window.scrollTo(0, 0)")
}

// Package browsertest provides an in-memory Page/Driver implementation so
// classifier, handler, and controller logic can be exercised without a
// browser.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-autoapply-engine/internal/models"
)

// FakePage simulates one page state. Selector lookups are answered from the
// Counts map; everything else is recorded for assertions.
type FakePage struct {
	URL  string
	HTML string

	// Counts answers Count(selector). Selectors not present count 0.
	Counts map[string]int
	// Attrs answers Attribute(selector, name).
	Attrs map[string]map[string]string
	// Texts answers Text(selector).
	Texts map[string]string
	// EvalResult answers every Evaluate call.
	EvalResult string

	// NavTargets maps a URL to the page state after navigating there.
	NavTargets map[string]*FakePage
	NavErr     error
	InitErr    error

	Filled     map[string]string
	Selected   map[string]string
	Checked    map[string]bool
	Uploaded   map[string]models.Document
	Clicked    []string
	ClickHook  func(selector string)
	ScreenLog  []string
	CloseCalls int

	entries []models.ActionEntry
}

func New(url, html string) *FakePage {
	return &FakePage{
		URL:        url,
		HTML:       html,
		Counts:     map[string]int{},
		Attrs:      map[string]map[string]string{},
		Texts:      map[string]string{},
		NavTargets: map[string]*FakePage{},
		Filled:     map[string]string{},
		Selected:   map[string]string{},
		Checked:    map[string]bool{},
		Uploaded:   map[string]models.Document{},
	}
}

func (p *FakePage) CurrentURL() string { return p.URL }

func (p *FakePage) Content() (string, error) { return p.HTML, nil }

func (p *FakePage) Count(selector string) (int, error) {
	return p.Counts[selector], nil
}

func (p *FakePage) Text(selector string) (string, error) {
	if text, ok := p.Texts[selector]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no text for %s", selector)
}

func (p *FakePage) Attribute(selector, name string) (string, error) {
	if attrs, ok := p.Attrs[selector]; ok {
		return attrs[name], nil
	}
	return "", fmt.Errorf("no element %s", selector)
}

func (p *FakePage) Click(selector string) error {
	if p.Counts[selector] == 0 {
		return fmt.Errorf("click %s: not found", selector)
	}
	p.Clicked = append(p.Clicked, selector)
	if p.ClickHook != nil {
		p.ClickHook(selector)
	}
	return nil
}

func (p *FakePage) Fill(selector, value string) error {
	if p.Counts[selector] == 0 {
		return fmt.Errorf("fill %s: not found", selector)
	}
	p.Filled[selector] = value
	return nil
}

func (p *FakePage) SelectOption(selector, value string) error {
	if p.Counts[selector] == 0 {
		return fmt.Errorf("select %s: not found", selector)
	}
	p.Selected[selector] = value
	return nil
}

func (p *FakePage) SetChecked(selector string, checked bool) error {
	if p.Counts[selector] == 0 {
		return fmt.Errorf("check %s: not found", selector)
	}
	p.Checked[selector] = checked
	return nil
}

func (p *FakePage) UploadFile(selector string, doc models.Document) error {
	if p.Counts[selector] == 0 {
		return fmt.Errorf("upload %s: not found", selector)
	}
	p.Uploaded[selector] = doc
	return nil
}

func (p *FakePage) Evaluate(script string) (string, error) {
	return p.EvalResult, nil
}

func (p *FakePage) NavigateTo(url string) error {
	if p.NavErr != nil {
		return p.NavErr
	}
	if next, ok := p.NavTargets[url]; ok {
		p.URL = next.URL
		p.HTML = next.HTML
		p.Counts = next.Counts
		p.Attrs = next.Attrs
		p.Texts = next.Texts
		p.EvalResult = next.EvalResult
		return nil
	}
	p.URL = url
	return nil
}

func (p *FakePage) WaitForSelector(selector string, timeout time.Duration) error {
	if p.Counts[selector] == 0 {
		return errors.New("timeout waiting for " + selector)
	}
	return nil
}

func (p *FakePage) WaitForTimeout(d time.Duration) {}

func (p *FakePage) TakeScreenshot(label string) (models.ImageRef, error) {
	p.ScreenLog = append(p.ScreenLog, label)
	ref := models.ImageRef("fake://" + strings.ReplaceAll(label, " ", "-"))
	p.entries = append(p.entries, models.ActionEntry{
		Timestamp: time.Now(), Action: "takeScreenshot",
		Status: models.ActionOK, Detail: label, Screenshot: ref,
	})
	return ref, nil
}

func (p *FakePage) Initialize(ctx context.Context) error { return p.InitErr }

func (p *FakePage) Close() error {
	p.CloseCalls++
	return nil
}

func (p *FakePage) ActionLog() []models.ActionEntry { return p.entries }

package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-autoapply-engine/internal/browser/browsertest"
)

func TestDetectGreenhouseByURL(t *testing.T) {
	page := browsertest.New("https://job-boards.greenhouse.io/exampleco/jobs/123", "<form></form>")

	detection := Detect(page)

	assert.Equal(t, ATSGreenhouse, detection.Type)
	assert.GreaterOrEqual(t, detection.Confidence, 0.6)
}

func TestDetectLeverByURLAndDOM(t *testing.T) {
	page := browsertest.New("https://jobs.lever.co/exampleco/abc", "<div>Jobs powered by Lever</div>")
	page.Counts[".application-form"] = 1

	detection := Detect(page)

	assert.Equal(t, ATSLever, detection.Type)
	// url + dom + text
	assert.InDelta(t, 1.0, detection.Confidence, 0.01)
}

func TestDetectDOMOnlyMeetsThreshold(t *testing.T) {
	// embedded greenhouse board on a company domain: no URL signal
	page := browsertest.New("https://careers.example.com/openings", "")
	page.Counts["#grnhse_app"] = 1
	page.Counts["#application_form"] = 1

	detection := Detect(page)

	assert.Equal(t, ATSGreenhouse, detection.Type)
	assert.InDelta(t, 0.5, detection.Confidence, 0.01)
}

func TestDetectWorkdayClassifiedNotSpecialized(t *testing.T) {
	page := browsertest.New("https://exampleco.wd5.myworkdayjobs.com/en-US/careers/job/123", "")

	detection := Detect(page)

	assert.Equal(t, ATSWorkday, detection.Type)
}

func TestDetectGenericFallback(t *testing.T) {
	page := browsertest.New("https://apply.example.com/jobs/42", "<form></form>")
	page.Counts["form"] = 1
	page.Counts["input[type='file']"] = 1

	detection := Detect(page)

	assert.Equal(t, ATSGeneric, detection.Type)
	assert.InDelta(t, 0.5, detection.Confidence, 0.01)
}

func TestDetectGenericWithoutFileUpload(t *testing.T) {
	page := browsertest.New("https://apply.example.com/jobs/42", "<form></form>")
	page.Counts["form"] = 1

	detection := Detect(page)

	assert.Equal(t, ATSGeneric, detection.Type)
	assert.InDelta(t, 0.3, detection.Confidence, 0.01)
}

func TestDetectConfidenceCapped(t *testing.T) {
	page := browsertest.New("https://boards.greenhouse.io/x", "powered by greenhouse")
	page.Counts["#grnhse_app"] = 1
	page.Counts["#application_form"] = 1
	page.Counts["#main_fields"] = 1

	detection := Detect(page)

	assert.Equal(t, ATSGreenhouse, detection.Type)
	assert.LessOrEqual(t, detection.Confidence, 1.0)
}

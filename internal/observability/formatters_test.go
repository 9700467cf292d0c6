package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-portal/internal/types"
)

func TestPrintResultSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(&types.GenerationResult{
		Success: true,
		Portal:  &types.Portal{ID: "portal_job1_1", Status: types.PortalStatusCompleted},
		Urls: &types.PortalUrls{
			Portal:   "https://ada-cv-portal.hf.space",
			Chat:     "https://ada-cv-portal.hf.space/chat",
			Download: "https://ada-cv-portal.hf.space/download",
		},
		StepsCompleted:   types.AllSteps,
		ProcessingTimeMs: 128,
		Warnings:         []string{"parsedData: summary missing"},
	})

	out := buf.String()
	assert.Contains(t, out, "Portal Generated")
	assert.Contains(t, out, "portal_job1_1")
	assert.Contains(t, out, "11 completed")
	assert.Contains(t, out, "Warnings")
}

func TestPrintResultFailure(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(&types.GenerationResult{
		Error: &types.PortalError{
			Code:     types.CodeDeploymentFailed,
			Category: types.CategoryExternalAPI,
			Message:  "The service is overloaded. Please try again shortly.",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Portal Generation Failed")
	assert.Contains(t, out, "DEPLOYMENT_FAILED")
	assert.Contains(t, out, "overloaded")
}

func TestPrintResultNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(nil)
	assert.Zero(t, buf.Len())
}

func TestPrintStepsTruncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSteps(types.AllSteps)

	out := buf.String()
	assert.Contains(t, out, "1. VALIDATE_INPUT")
	assert.Contains(t, out, "and 6 more")
	assert.NotContains(t, out, "FINALIZE_PORTAL")
}

func TestPrintBoxTruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("Title", strings.Repeat("x", 200))
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}

package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/cv-portal/internal/llm"
	"github.com/jonathan/cv-portal/internal/types"
)

// StaticExtractor builds portal content deterministically from the parsed CV
// with no external calls. It is the fallback when no LLM is configured.
type StaticExtractor struct{}

// Extract assembles headline, summary and chat persona from the CV fields.
func (e *StaticExtractor) Extract(_ context.Context, cv *types.ParsedCV) (*PortalContent, error) {
	if cv == nil {
		return nil, fmt.Errorf("parsed CV is required")
	}

	content := &PortalContent{
		Summary: cv.Summary,
		Skills:  append([]string(nil), cv.Skills...),
	}
	if cv.PersonalInfo != nil {
		content.DisplayName = cv.PersonalInfo.Name
	}

	if len(cv.Experience) > 0 {
		latest := cv.Experience[0]
		switch {
		case latest.Title != "" && latest.Company != "":
			content.Headline = latest.Title + " at " + latest.Company
		case latest.Title != "":
			content.Headline = latest.Title
		default:
			content.Headline = latest.Company
		}
	}

	for _, exp := range cv.Experience {
		section := exp.Title
		if exp.Company != "" {
			section += " — " + exp.Company
		}
		if len(exp.Highlights) > 0 {
			section += ": " + strings.Join(exp.Highlights, "; ")
		}
		content.Sections = append(content.Sections, section)
	}
	for _, edu := range cv.Education {
		content.Sections = append(content.Sections, edu.Degree+" — "+edu.Institution)
	}

	content.ChatPersona = buildPersona(content)
	return content, nil
}

// buildPersona writes the system persona the portal's AI chat runs with.
func buildPersona(content *PortalContent) string {
	name := content.DisplayName
	if name == "" {
		name = "the candidate"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "You answer questions about %s's professional background.", name)
	if content.Headline != "" {
		fmt.Fprintf(&sb, " Current role: %s.", content.Headline)
	}
	if len(content.Skills) > 0 {
		fmt.Fprintf(&sb, " Key skills: %s.", strings.Join(content.Skills, ", "))
	}
	sb.WriteString(" Only discuss information from the CV; decline anything else.")
	return sb.String()
}

// LLMExtractor enriches static extraction with model-written summary and
// persona text. Any model failure falls back to the static output so content
// extraction never depends on LLM availability.
type LLMExtractor struct {
	Client llm.Client

	static StaticExtractor
}

// Extract builds static content, then asks the model to rewrite the summary
// for a public portal audience.
func (e *LLMExtractor) Extract(ctx context.Context, cv *types.ParsedCV) (*PortalContent, error) {
	content, err := e.static.Extract(ctx, cv)
	if err != nil {
		return nil, err
	}
	if e.Client == nil {
		return content, nil
	}

	prompt := fmt.Sprintf(
		"Rewrite this CV summary as a warm two-sentence introduction for a personal portfolio site. Keep it factual.\n\nName: %s\nHeadline: %s\nSummary: %s",
		content.DisplayName, content.Headline, content.Summary)

	rewritten, err := e.Client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		// Fall back silently; the static summary is always usable.
		return content, nil
	}
	if s := strings.TrimSpace(rewritten); s != "" {
		content.Summary = s
	}
	return content, nil
}

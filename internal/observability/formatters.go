// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-portal/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs a human-readable summary of a generation result.
func (p *Printer) PrintResult(result *types.GenerationResult) {
	if result == nil {
		return
	}
	if result.Success {
		p.printSuccess(result)
	} else {
		p.printFailure(result)
	}
}

func (p *Printer) printSuccess(result *types.GenerationResult) {
	var sb strings.Builder

	if result.Portal != nil {
		sb.WriteString(fmt.Sprintf("Portal:   %s\n", result.Portal.ID))
		sb.WriteString(fmt.Sprintf("Status:   %s\n", result.Portal.Status))
	}
	if result.Urls != nil {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", result.Urls.Portal))
		sb.WriteString(fmt.Sprintf("Chat:     %s\n", result.Urls.Chat))
		sb.WriteString(fmt.Sprintf("Download: %s\n", result.Urls.Download))
	}
	sb.WriteString(fmt.Sprintf("Steps:    %d completed\n", len(result.StepsCompleted)))
	sb.WriteString(fmt.Sprintf("Elapsed:  %dms", result.ProcessingTimeMs))

	p.printBox("Portal Generated", sb.String())
	p.printWarnings(result.Warnings)
}

func (p *Printer) printFailure(result *types.GenerationResult) {
	var sb strings.Builder

	if result.Error != nil {
		sb.WriteString(fmt.Sprintf("Code:     %s\n", result.Error.Code))
		sb.WriteString(fmt.Sprintf("Category: %s\n", result.Error.Category))
		sb.WriteString(fmt.Sprintf("Message:  %s\n", result.Error.Message))
		sb.WriteString(fmt.Sprintf("Retry:    %t\n", result.Error.Recoverable))
	}
	sb.WriteString(fmt.Sprintf("Steps:    %d completed\n", len(result.StepsCompleted)))
	sb.WriteString(fmt.Sprintf("Elapsed:  %dms", result.ProcessingTimeMs))

	p.printBox("Portal Generation Failed", sb.String())
}

// PrintSteps outputs the completed step history, truncated to the display
// limit.
func (p *Printer) PrintSteps(steps []types.GenerationStep) {
	if len(steps) == 0 {
		return
	}

	var sb strings.Builder
	shown := steps
	if len(shown) > maxItemsToShow {
		shown = shown[:maxItemsToShow]
	}
	for i, step := range shown {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	if len(steps) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more", len(steps)-maxItemsToShow))
	}

	p.printBox("Pipeline Steps", strings.TrimRight(sb.String(), "\n"))
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}
	p.printBox("Warnings", strings.TrimRight(sb.String(), "\n"))
}

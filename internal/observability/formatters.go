// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/brand-content-engine/internal/types"
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
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList appends up to limit items under a heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintBrandVoice outputs the normalized brand voice and its completeness score.
func (p *Printer) PrintBrandVoice(bv *types.BrandVoiceContext, completeness types.Completeness) {
	if bv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:   %s\n", bv.CompanyName))
	sb.WriteString(fmt.Sprintf("Industry:  %s\n", bv.Industry))
	sb.WriteString(fmt.Sprintf("Audience:  %s\n", bv.TargetAudience))
	sb.WriteString(fmt.Sprintf("Tone:      %s\n", bv.Tone))
	sb.WriteString(fmt.Sprintf("Complete:  %d%%\n", completeness.Score))
	sb.WriteString("\n")

	writeList(&sb, "Keywords", bv.Keywords, maxItemsToShow)
	writeList(&sb, "Pain Points", bv.PainPoints, 3)
	writeList(&sb, "Suggestions", completeness.Suggestions, 3)

	p.printBox("BRAND VOICE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHooks outputs the extracted hooks with pillar and confidence.
func (p *Printer) PrintHooks(hooks []types.Hook) {
	if len(hooks) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d hooks:\n\n", len(hooks)))

	count := min(len(hooks), maxItemsToShow)
	for i, hook := range hooks[:count] {
		sb.WriteString(fmt.Sprintf("#%d  %s (%.2f)\n", i+1, hook.Pillar, hook.Confidence))
		sb.WriteString(fmt.Sprintf("    %s\n", firstLine(hook.LinkedInDraft)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(hooks) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more hooks", len(hooks)-maxItemsToShow))
	}

	p.printBox("HOOKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPost outputs the opening of a drafted post and its length.
func (p *Printer) PrintPost(post *types.Post) {
	if post == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n\n", firstLine(post.Content)))
	sb.WriteString(fmt.Sprintf("Characters: %d\n", post.CharacterCount))
	if post.Reasoning != "" {
		sb.WriteString(fmt.Sprintf("Why: %s", post.Reasoning))
	}

	p.printBox("DRAFTED POST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs the outcome of a website analysis job.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintAnalysis(job *types.AnalysisJob) {
	if job == nil {
		return
	}
	if job.Status == types.JobFailed {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip("⚠ ANALYSIS FAILED: "+job.ErrorMessage, boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}
	if job.Result == nil {
		return
	}

	result := job.Result
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:       %s\n", result.URL))
	visual := result.VisualStyle
	sb.WriteString(fmt.Sprintf("Visual:    %s, %s (%s)\n", visual.Mood, visual.DesignStyle, visual.AnalysisType))
	if visual.ExactColors.Primary != "" {
		sb.WriteString(fmt.Sprintf("Primary:   %s\n", visual.ExactColors.Primary))
	}
	sb.WriteString("\n")
	writeList(&sb, "Social", result.SocialLinks, maxItemsToShow)

	p.printBox("WEBSITE ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
	if result.BrandVoice != nil {
		p.PrintBrandVoice(result.BrandVoice, result.Completeness)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

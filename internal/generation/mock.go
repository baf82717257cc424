package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/brand-content-engine/internal/types"
)

// MockRewriteLimit is the length a "short" mock rewrite is cut to.
const MockRewriteLimit = 100

// MockStatLine is appended by a mock rewrite asking for a statistic.
const MockStatLine = "Fact: 73% of B2B buyers say thought leadership content shaped their last purchase decision."

// MockReasoning marks posts produced without a model.
const MockReasoning = "Generated offline from the hook and brand voice without a model."

// MockHooks returns canned hooks built from the transcript and brand voice.
func MockHooks(transcript string, bv *types.BrandVoiceContext, pillars []string) []types.Hook {
	if len(pillars) == 0 {
		pillars = DefaultPillars
	}
	quote := firstSentence(transcript)
	pillar := func(i int) string { return pillars[i%len(pillars)] }
	return []types.Hook{
		{
			Pillar:        pillar(0),
			SourceQuote:   quote,
			Blog:          fmt.Sprintf("What %s teams get wrong about %s, and how to fix it.", bv.Industry, strings.ToLower(pillar(0))),
			LinkedInDraft: fmt.Sprintf("Most %s miss this.\n\n%s", strings.ToLower(bv.TargetAudience), quote),
			TweetDraft:    truncateRunes(fmt.Sprintf("Hard-won lesson from the field: %s", quote), 270),
			Confidence:    0.9,
			Reasoning:     "Direct quote with a concrete lesson the audience can apply.",
		},
		{
			Pillar:        pillar(1),
			SourceQuote:   quote,
			Blog:          fmt.Sprintf("A behind-the-scenes look at how %s works with clients.", bv.CompanyName),
			LinkedInDraft: fmt.Sprintf("Here is what a real conversation at %s sounds like.", bv.CompanyName),
			TweetDraft:    fmt.Sprintf("Inside a %s client call.", bv.Industry),
			Confidence:    0.8,
			Reasoning:     "Shows expertise through a real customer interaction.",
		},
		{
			Pillar:        pillar(2),
			SourceQuote:   quote,
			Blog:          fmt.Sprintf("Three signals that your %s strategy needs a reset.", bv.Industry),
			LinkedInDraft: fmt.Sprintf("If %s keeps coming up in your meetings, read this.", firstOr(bv.PainPoints, "the same problem")),
			TweetDraft:    "The problem you keep talking about in meetings is the one to post about.",
			Confidence:    0.7,
			Reasoning:     "Names a pain point the audience already feels.",
		},
	}
}

// MockPost interpolates the hook, pillar and industry into a fixed post.
func MockPost(hook, pillar string, bv *types.BrandVoiceContext) *types.Post {
	content := fmt.Sprintf("%s\n\nIn %s, this comes up more than you would think.\n\nWe see it every week with %s, and it always ties back to %s.\n\nWhat has your experience been?\n\n#%s",
		strings.TrimSpace(hook),
		bv.Industry,
		strings.ToLower(bv.TargetAudience),
		strings.ToLower(pillar),
		hashtag(bv.Industry))
	return &types.Post{
		Content:        content,
		Reasoning:      MockReasoning,
		CharacterCount: utf8.RuneCountInString(content),
	}
}

// MockRewrite applies keyword-triggered transforms to content.
func MockRewrite(content, instructions string) string {
	out := strings.TrimSpace(content)
	lower := strings.ToLower(instructions)
	if strings.Contains(lower, "short") {
		out = truncateRunes(out, MockRewriteLimit)
	}
	if strings.Contains(lower, "statistic") {
		out += "\n\n" + MockStatLine
	}
	return out
}

func firstSentence(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		text = text[:i+1]
	}
	return truncateRunes(text, 200)
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}

func hashtag(s string) string {
	var sb strings.Builder
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, "&-/,.")
		if w == "" {
			continue
		}
		r := []rune(w)
		sb.WriteString(strings.ToUpper(string(r[0])) + string(r[1:]))
	}
	return sb.String()
}

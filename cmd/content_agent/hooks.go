package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-content-engine/internal/generation"
	"github.com/jonathan/brand-content-engine/internal/types"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Extract hooks from a transcript and draft posts",
	Long: `Runs hook extraction on a meeting transcript, then drafts a LinkedIn post
for the strongest hooks. Without GEMINI_API_KEY the mock generators are used,
which is useful for checking the output shape.`,
	RunE: runHooks,
}

var (
	hooksTranscript string
	hooksBrand      string
	hooksPillars    []string
	hooksPosts      int
)

func init() {
	hooksCmd.Flags().StringVarP(&hooksTranscript, "transcript", "t", "", "Path to transcript text file, or - for stdin (required)")
	hooksCmd.Flags().StringVarP(&hooksBrand, "brand", "b", "", "Path to raw brand voice JSON file")
	hooksCmd.Flags().StringSliceVar(&hooksPillars, "pillars", nil, "Content pillars (comma separated)")
	hooksCmd.Flags().IntVar(&hooksPosts, "posts", 1, "Number of hooks to draft posts for")

	if err := hooksCmd.MarkFlagRequired("transcript"); err != nil {
		panic(fmt.Sprintf("failed to mark transcript flag as required: %v", err))
	}
	rootCmd.AddCommand(hooksCmd)
}

func runHooks(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	in, err := openInput(cmd, hooksTranscript)
	if err != nil {
		return err
	}
	transcript, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	raw, err := loadBrandVoice(hooksBrand)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newLLMClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}

	p := generation.New(client, nil, log, generation.WithExcerptLength(cfg.ExcerptLength))
	out, err := draftContent(ctx, p, string(transcript), raw, hooksPillars, hooksPosts)
	if err != nil {
		return err
	}
	if printer := summary(cmd); printer != nil {
		printer.PrintHooks(out.Hooks)
		for _, post := range out.Posts {
			printer.PrintPost(post)
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

type hooksOutput struct {
	Mock  bool          `json:"mock"`
	Hooks []types.Hook  `json:"hooks"`
	Posts []*types.Post `json:"posts"`
}

// draftContent runs hook extraction and then post generation for the first
// n hooks, in order.
func draftContent(ctx context.Context, p *generation.Pipeline, transcript string, bv *types.RawBrandVoice, pillars []string, n int) (*hooksOutput, error) {
	hooks, err := p.GenerateHooks(ctx, generation.HookRequest{Transcript: transcript, BrandVoice: bv, Pillars: pillars})
	if err != nil {
		return nil, err
	}
	out := &hooksOutput{Mock: p.MockMode(), Hooks: hooks, Posts: []*types.Post{}}
	for _, hook := range hooks[:min(max(n, 0), len(hooks))] {
		post, err := p.GeneratePost(ctx, generation.PostRequest{
			Hook:        hook.LinkedInDraft,
			Pillar:      hook.Pillar,
			BrandVoice:  bv,
			HookContext: hook.SourceQuote,
		})
		if err != nil {
			return nil, err
		}
		out.Posts = append(out.Posts, post)
	}
	return out, nil
}

// loadBrandVoice reads raw brand voice JSON from path. An empty path yields
// nil, which the pipeline normalizes to the generic fallback.
func loadBrandVoice(path string) (*types.RawBrandVoice, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand voice file: %w", err)
	}
	var raw types.RawBrandVoice
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse brand voice JSON: %w", err)
	}
	return &raw, nil
}

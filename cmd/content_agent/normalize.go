package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/observability"
	"github.com/jonathan/brand-content-engine/internal/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw brand voice data",
	Long: `Reads raw brand voice JSON (or "-" for stdin), fills gaps from the industry
fallback table and prints the result. --format selects json output or one of
the prompt renderings: structured, narrative, context.`,
	RunE: runNormalize,
}

var (
	normalizeInput   string
	normalizeFormat  string
	normalizeExcerpt int
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "in", "i", "", "Path to raw brand voice JSON file (required)")
	normalizeCmd.Flags().StringVarP(&normalizeFormat, "format", "f", "json", "Output format: json, structured, narrative, context")
	normalizeCmd.Flags().IntVar(&normalizeExcerpt, "excerpt-length", 0, "Website excerpt length in characters (0 uses the default)")

	if err := normalizeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	in, err := openInput(cmd, normalizeInput)
	if err != nil {
		return err
	}
	defer in.Close()
	return normalize(in, cmd.OutOrStdout(), normalizeFormat, normalizeExcerpt, summary(cmd))
}

// normalizeOutput is the json rendering of the normalize command.
type normalizeOutput struct {
	BrandVoice   *types.BrandVoiceContext `json:"brandVoice"`
	Completeness types.Completeness       `json:"completeness"`
}

func normalize(in io.Reader, out io.Writer, format string, excerptLength int, printer *observability.Printer) error {
	var raw types.RawBrandVoice
	if err := json.NewDecoder(in).Decode(&raw); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse brand voice JSON: %w", err)
	}
	bv := brandvoice.Normalizer{ExcerptLength: excerptLength}.Normalize(&raw)
	completeness := brandvoice.ValidateCompleteness(&raw)
	if printer != nil {
		printer.PrintBrandVoice(bv, completeness)
	}

	switch mode := brandvoice.Mode(format); mode {
	case "json":
		return writeJSON(out, normalizeOutput{BrandVoice: bv, Completeness: completeness})
	case brandvoice.ModeStructured, brandvoice.ModeNarrative, brandvoice.ModeContext:
		_, err := fmt.Fprintln(out, brandvoice.Format(bv, mode))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// openInput opens path, or stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

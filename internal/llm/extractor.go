// Package llm - extractor.go provides generic LLM-based structured extraction prompts.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "IndustryICP", "VisualStyle")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "number"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Base every value on the text below, do not invent facts.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// IndustryICPSchema asks for a specific industry and ideal customer profile
// inferred from website copy.
func IndustryICPSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "IndustryICP",
		Description: `You are a B2B market analyst. Read the company website text and identify the company's specific industry niche and its ideal customer profile.
Be specific: "Amazon FBA account management" is useful, "Business" is not.`,
		Fields: []SchemaField{
			{Name: "industry", Type: "\"string\"", Description: "Specific industry niche", Required: true},
			{Name: "targetAudience", Type: "\"string\"", Description: "Ideal customer profile: role, company type, size", Required: true},
			{Name: "confidence", Type: "number", Description: "0.0-1.0 confidence in the inference", Required: true},
		},
	}
}

// VisualStyleSchema asks for a visual style profile inferred from website copy alone.
func VisualStyleSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "VisualStyle",
		Description: `You are a brand designer. From the company's website text, infer the visual identity the brand most likely uses.
designStyle must be one of: "Modern & Clean", "Bold & Dynamic", "Professional & Corporate", "Playful & Creative", "Minimalist", "Luxury & Elegant", "Technical & Data-Driven".`,
		Fields: []SchemaField{
			{Name: "mood", Type: "\"string\"", Description: "Overall brand mood", Required: true},
			{Name: "designStyle", Type: "\"string\"", Description: "One of the seven design style classes", Required: true},
			{Name: "exactColors", Type: "{\"primary\": \"#hex\", \"secondary\": \"#hex\", \"accent\": \"#hex\", \"background\": \"#hex\", \"text\": \"#hex\"}", Description: "Likely brand palette", Required: true},
			{Name: "typography", Type: "\"string\"", Description: "Typography style", Required: true},
			{Name: "visualEffects", Type: "\"string\"", Description: "Border radius, shadows, gradients", Required: true},
			{Name: "energyLevel", Type: "\"low|medium|high\"", Description: "Visual energy", Required: true},
			{Name: "keyCharacteristics", Type: "[\"string\"]", Description: "3-5 defining visual traits", Required: true},
		},
	}
}

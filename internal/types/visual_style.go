package types

// AnalysisType records which path produced a VisualStyleProfile.
type AnalysisType string

// Analysis types for visual style profiles
const (
	AnalysisText       AnalysisType = "text"
	AnalysisScreenshot AnalysisType = "screenshot"
	AnalysisFallback   AnalysisType = "fallback"
)

// ExactColors is the brand palette as hex values.
type ExactColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// VisualStyleProfile describes a brand's visual identity for image-prompt generation.
type VisualStyleProfile struct {
	Mood               string       `json:"mood"`
	DesignStyle        string       `json:"designStyle"`
	ExactColors        ExactColors  `json:"exactColors"`
	Typography         string       `json:"typography"`
	VisualEffects      string       `json:"visualEffects"`
	EnergyLevel        string       `json:"energyLevel"`
	KeyCharacteristics []string     `json:"keyCharacteristics"`
	Analyzed           bool         `json:"analyzed"`
	AnalysisType       AnalysisType `json:"analysisType"`
}

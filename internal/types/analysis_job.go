package types

import "time"

// JobStatus is the lifecycle state of an analysis job.
type JobStatus string

// Job statuses
const (
	JobProcessing JobStatus = "PROCESSING"
	JobComplete   JobStatus = "COMPLETE"
	JobFailed     JobStatus = "FAILED"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == JobComplete || s == JobFailed
}

// JobProgress is the incremental progress reported by a running analysis.
type JobProgress struct {
	Step       string `json:"step"`
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}

// AnalysisResult is the output of a website and social analysis.
type AnalysisResult struct {
	URL          string             `json:"url"`
	Raw          *RawBrandVoice     `json:"raw"`
	BrandVoice   *BrandVoiceContext `json:"brandVoice"`
	VisualStyle  VisualStyleProfile `json:"visualStyle"`
	SocialLinks  []string           `json:"socialLinks"`
	Completeness Completeness       `json:"completeness"`
}

// AnalysisJob is a background website-analysis job.
type AnalysisJob struct {
	ID           string          `json:"id"`
	URL          string          `json:"url"`
	Status       JobStatus       `json:"status"`
	Progress     JobProgress     `json:"progress"`
	Result       *AnalysisResult `json:"result,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	StartedAt    time.Time       `json:"startedAt"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
	// EvictAt is set by the first poll that observes a terminal status.
	EvictAt *time.Time `json:"evictAt,omitempty"`
}

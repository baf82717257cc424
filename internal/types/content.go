package types

// Hook is a quotable insight extracted from a transcript.
type Hook struct {
	Pillar        string  `json:"pillar"`
	SourceQuote   string  `json:"sourceQuote"`
	Blog          string  `json:"blog"`
	LinkedInDraft string  `json:"linkedinDraft"`
	TweetDraft    string  `json:"tweetDraft"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
}

// Post is a generated social post.
type Post struct {
	Content        string `json:"content"`
	ImagePrompt    string `json:"imagePrompt"`
	Reasoning      string `json:"reasoning"`
	CharacterCount int    `json:"characterCount"`
}

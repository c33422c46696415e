package models

// GenerateRequest is the body of POST /api/commentary.
type GenerateRequest struct {
	Period       string  `json:"period"`
	MarketRegion string  `json:"market_region"`
	Benchmark    string  `json:"benchmark"`
	ParaMin      int     `json:"para_min,omitempty"`
	ParaMax      int     `json:"para_max,omitempty"`
	ZThreshold   float64 `json:"z_threshold,omitempty"`
	MaxEvents    int     `json:"max_events,omitempty"`
	Model        string  `json:"model,omitempty"`
}

// GenerateResponse is the full result of a commentary generation.
type GenerateResponse struct {
	MarketContextMarkdown string          `json:"market_context_markdown"`
	Payload               *MarketContext  `json:"payload"`
	Events                []DetectedEvent `json:"events"`
	Stats                 TextStats       `json:"stats"`
}

// TextStats carries simple word and paragraph counts for the generated text.
type TextStats struct {
	Words      int `json:"words"`
	Paragraphs int `json:"paragraphs"`
}

// RegionPreset is a client-convenience region/benchmark pairing.
type RegionPreset struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Benchmark string `json:"benchmark"`
}

// PresetsResponse lists available quarters, regions, and benchmarks.
type PresetsResponse struct {
	Quarters   []string       `json:"quarters"`
	Regions    []RegionPreset `json:"regions"`
	Benchmarks []string       `json:"benchmarks"`
}

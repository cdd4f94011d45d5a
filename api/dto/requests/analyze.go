// ABOUTME: Request DTOs for analysis endpoints
// ABOUTME: Provides validation and default values for incoming requests

package requests

// AnalyzeRequest represents the request body for an analysis run
type AnalyzeRequest struct {
	// Keywords is the list of keyword strings to analyze
	Keywords []string `json:"keywords" minItems:"1" maxItems:"1000" doc:"Keywords to cluster"`

	// LocationCode is the DataForSEO location code for the SERPs
	LocationCode int `json:"location_code,omitempty" minimum:"1" default:"2840" doc:"SERP location code (default 2840, United States)"`

	// LanguageCode is the two-letter SERP language code
	LanguageCode string `json:"language_code,omitempty" default:"en" doc:"SERP language code (default en)"`

	// Threshold overrides the overlap threshold used to connect keywords
	Threshold float64 `json:"threshold,omitempty" minimum:"0" maximum:"1" doc:"Overlap threshold in (0,1], default 0.8"`

	// Domain enables cannibalization detection for the given domain
	Domain string `json:"domain,omitempty" doc:"Target domain for cannibalization detection"`
}

// ApplyDefaults sets default values for optional fields
func (r *AnalyzeRequest) ApplyDefaults() {
	if r.LocationCode == 0 {
		r.LocationCode = 2840
	}
	if r.LanguageCode == "" {
		r.LanguageCode = "en"
	}
}

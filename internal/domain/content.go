package domain

// ScentNotes is the three-tier scent breakdown required for the Parfums
// category when the generator can source it
type ScentNotes struct {
	Top   []string `json:"top"`
	Heart []string `json:"heart"`
	Base  []string `json:"base"`
}

// GeneratedContent is the final structured output of a successful run.
// Created once, handed to the caller, never mutated afterward.
type GeneratedContent struct {
	SEOTitle              string      `json:"seoTitle"`
	ShortDescription      string      `json:"shortDescription"`
	LongDescription       string      `json:"longDescription"`
	MainKeyword           string      `json:"mainKeyword"`
	SuggestedCategory     string      `json:"suggestedCategory"`
	ScentNotes            *ScentNotes `json:"scentNotes,omitempty"`
	ScentNotesUnavailable bool        `json:"scentNotesUnavailable,omitempty"`
	ConfidenceScore       float64     `json:"confidenceScore"`
	CorrectedProductName  string      `json:"correctedProductName,omitempty"`
	CorrectedBrand        string      `json:"correctedBrand,omitempty"`
	Message               string      `json:"message,omitempty"`
	InternalLog           string      `json:"internalLog"`
}

// Refusal is the structured negative outcome of a successful pipeline run:
// the identity could not be resolved with enough confidence, so no content
// was generated. Distinct from a pipeline failure.
type Refusal struct {
	ConfidenceScore float64     `json:"confidenceScore"`
	Message         string      `json:"message"`
	Alternatives    []Candidate `json:"alternatives,omitempty"`
	InternalLog     string      `json:"internalLog"`
}

// ResultStatus distinguishes the two successful pipeline outcomes
type ResultStatus string

const (
	StatusGenerated ResultStatus = "generated"
	StatusRefused   ResultStatus = "refused"
)

// PipelineResult is what the orchestrator hands back to the caller boundary:
// exactly one of Content or Refusal is set, never both, never neither.
type PipelineResult struct {
	Status  ResultStatus      `json:"status"`
	Content *GeneratedContent `json:"content,omitempty"`
	Refusal *Refusal          `json:"refusal,omitempty"`
}

// ResolvedIdentity is the cacheable outcome of the resolution stages
// (lookup, correction, scoring) for one normalized query. Low-confidence
// resolutions are never cached.
type ResolvedIdentity struct {
	ConfidenceScore      float64  `json:"confidenceScore"`
	ExactMatch           bool     `json:"exactMatch"`
	CorrectedProductName string   `json:"correctedProductName,omitempty"`
	CorrectedBrand       string   `json:"correctedBrand,omitempty"`
	Sources              []string `json:"sources,omitempty"`
}

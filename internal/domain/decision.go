package domain

// DecisionKind is one of the three terminal decision bands. Selection is a
// pure function of the confidence score; no band is ever re-entered.
type DecisionKind string

const (
	DecisionAutoAccept           DecisionKind = "auto_accept"
	DecisionAcceptWithDisclaimer DecisionKind = "accept_with_disclaimer"
	DecisionRefuse               DecisionKind = "refuse"
)

// Decision is the terminal outcome of one pipeline run.
// Corrected fields are set only when the accepted identity differs from the
// user's input. Refuse decisions carry up to three ranked alternatives, or a
// generic clarification message when none are available.
type Decision struct {
	Kind                 DecisionKind `json:"kind"`
	ConfidenceScore      float64      `json:"confidenceScore"`
	CorrectedProductName string       `json:"correctedProductName,omitempty"`
	CorrectedBrand       string       `json:"correctedBrand,omitempty"`
	Disclaimer           string       `json:"disclaimer,omitempty"`
	ClarifyMessage       string       `json:"clarifyMessage,omitempty"`
	Alternatives         []Candidate  `json:"alternatives,omitempty"`
}

// Accepted reports whether content generation may proceed
func (d *Decision) Accepted() bool {
	return d.Kind == DecisionAutoAccept || d.Kind == DecisionAcceptWithDisclaimer
}

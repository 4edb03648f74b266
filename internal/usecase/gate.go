package usecase

import (
	"fmt"
	"sort"

	"github.com/copyforge/backend/internal/domain"
)

// GateConfig holds the decision thresholds.
// The 85/60 defaults are exact business rules: >=85 auto-accept, 60-84
// accept with disclaimer, <60 refuse.
type GateConfig struct {
	AutoAcceptThreshold float64
	DisclaimerThreshold float64
	MaxAlternatives     int
}

// Gate maps a confidence score to one of three terminal decisions.
// The transition rule is a pure function of the score; correction fields and
// alternatives only decorate the chosen band.
type Gate struct {
	autoAcceptThreshold float64
	disclaimerThreshold float64
	maxAlternatives     int
}

// NewGate creates a decision gate with the given thresholds
func NewGate(config GateConfig) *Gate {
	autoAccept := config.AutoAcceptThreshold
	if autoAccept <= 0 {
		autoAccept = 85.0
	}
	disclaimer := config.DisclaimerThreshold
	if disclaimer <= 0 {
		disclaimer = 60.0
	}
	maxAlt := config.MaxAlternatives
	if maxAlt <= 0 {
		maxAlt = 3
	}

	return &Gate{
		autoAcceptThreshold: autoAccept,
		disclaimerThreshold: disclaimer,
		maxAlternatives:     maxAlt,
	}
}

// Decide computes the terminal decision for one pipeline run.
// exact reports whether the lookup produced an exact match (in which case
// the input identity stands and no correction is applied); best is the
// top correction proposal, candidates feed the refusal alternatives.
func (g *Gate) Decide(score float64, exact bool, best *Proposal, candidates []domain.Candidate) domain.Decision {
	decision := domain.Decision{ConfidenceScore: score}

	switch {
	case score >= g.autoAcceptThreshold:
		decision.Kind = domain.DecisionAutoAccept
		if !exact && best != nil {
			decision.CorrectedProductName = best.CorrectedProductName
			decision.CorrectedBrand = best.CorrectedBrand
		}

	case score >= g.disclaimerThreshold:
		decision.Kind = domain.DecisionAcceptWithDisclaimer
		if !exact && best != nil {
			decision.CorrectedProductName = best.CorrectedProductName
			decision.CorrectedBrand = best.CorrectedBrand
		}
		decision.Disclaimer = disclaimerMessage(decision.CorrectedProductName, decision.CorrectedBrand)

	default:
		decision.Kind = domain.DecisionRefuse
		decision.Alternatives = rankAlternatives(candidates, g.maxAlternatives)
		decision.ClarifyMessage = clarifyMessage(decision.Alternatives)
	}

	return decision
}

// rankAlternatives picks up to max candidates for a refusal, preferring
// trusted sources and higher popularity
func rankAlternatives(candidates []domain.Candidate, max int) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]domain.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Trusted != ranked[j].Trusted {
			return ranked[i].Trusted
		}
		return ranked[i].Popularity > ranked[j].Popularity
	})

	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// User-facing messages are in French: the product targets French-speaking
// e-commerce sellers.

func disclaimerMessage(correctedProduct, correctedBrand string) string {
	switch {
	case correctedProduct != "" && correctedBrand != "":
		return fmt.Sprintf("Le produit a été interprété comme « %s » de la marque « %s ». Vérifiez cette correction avant publication.",
			correctedProduct, correctedBrand)
	case correctedProduct != "":
		return fmt.Sprintf("Le nom du produit a été interprété comme « %s ». Vérifiez cette correction avant publication.",
			correctedProduct)
	case correctedBrand != "":
		return fmt.Sprintf("La marque a été interprétée comme « %s ». Vérifiez cette correction avant publication.",
			correctedBrand)
	default:
		return "Identification du produit incertaine : vérifiez le nom et la marque avant publication."
	}
}

func clarifyMessage(alternatives []domain.Candidate) string {
	if len(alternatives) > 0 {
		return "Impossible d'identifier ce produit avec certitude. Vouliez-vous dire l'un des produits proposés ? Sinon, précisez le nom exact et la marque."
	}
	return "Impossible d'identifier ce produit. Vérifiez l'orthographe du nom et de la marque, puis réessayez."
}

package service

import (
	"health-profiler/internal/config"
	"health-profiler/internal/domain"
)

// RiskClassifier mapea factores a un puntaje ponderado y un nivel de riesgo.
type RiskClassifier struct {
	rules *config.Ruleset
}

func NewRiskClassifier(rules *config.Ruleset) *RiskClassifier {
	return &RiskClassifier{rules: rules}
}

// Classify suma el peso configurado de cada factor y arma el rationale en
// paralelo, una frase legible por factor reconocido y en el mismo orden del
// input. Factores desconocidos aportan 0 y se saltan en silencio; no son error.
// El puntaje reportado se acota al cap despues de acumular.
func (c *RiskClassifier) Classify(factors []domain.Factor) domain.RiskResult {
	score := 0
	rationale := []string{}

	for _, f := range factors {
		weight, known := c.rules.Weights[f.Key()]
		if !known {
			continue
		}
		score += weight
		rationale = append(rationale, c.rules.RationaleLabels[f.Key()])
	}

	level := domain.RiskLow
	switch {
	case score >= c.rules.HighThreshold:
		level = domain.RiskHigh
	case score >= c.rules.ModerateThreshold:
		level = domain.RiskModerate
	}

	if score > c.rules.ScoreCap {
		score = c.rules.ScoreCap
	}

	return domain.RiskResult{
		RiskLevel: level,
		Score:     score,
		Rationale: rationale,
	}
}

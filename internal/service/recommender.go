package service

import (
	"health-profiler/internal/config"
	"health-profiler/internal/domain"
)

// Recommender compone la lista final de recomendaciones accionables.
type Recommender struct {
	rules *config.Ruleset
}

func NewRecommender(rules *config.Ruleset) *Recommender {
	return &Recommender{rules: rules}
}

// Recommend agrega por cada factor (en orden de input) su lista fija de
// recomendaciones, luego los mensajes del nivel: high antepone el mensaje
// urgente y agrega el de screening al final; moderate agrega dos; cualquier
// otro nivel cae en la rama low. Deduplica por igualdad exacta preservando la
// primera aparicion y trunca al maximo configurado. Nunca falla sobre enums validos.
func (r *Recommender) Recommend(level domain.RiskLevel, factors []domain.Factor) domain.RecommendationResult {
	recs := make([]string, 0, len(factors)*3+2)

	for _, f := range factors {
		if list, ok := r.rules.Recommendations[f.Key()]; ok {
			recs = append(recs, list...)
		}
	}

	msgs := r.rules.TierMessages
	switch level {
	case domain.RiskHigh:
		recs = append([]string{msgs.HighUrgent}, recs...)
		recs = append(recs, msgs.HighScreening)
	case domain.RiskModerate:
		recs = append(recs, msgs.Moderate...)
	default:
		recs = append(recs, msgs.Low...)
	}

	seen := make(map[string]bool, len(recs))
	unique := make([]string, 0, len(recs))
	for _, rec := range recs {
		if seen[rec] {
			continue
		}
		seen[rec] = true
		unique = append(unique, rec)
	}

	if len(unique) > r.rules.MaxRecommendations {
		unique = unique[:r.rules.MaxRecommendations]
	}

	if factors == nil {
		factors = []domain.Factor{}
	}

	return domain.RecommendationResult{
		RiskLevel:       level,
		Factors:         factors,
		Recommendations: unique,
		Status:          domain.StatusOK,
	}
}

package service

import (
	"strings"

	"health-profiler/internal/config"
	"health-profiler/internal/domain"
)

// Terminos de deteccion por factor. Son heuristicas de substring sensibles al
// orden de evaluacion de los predicados, no al orden de insercion del input.
var (
	poorDietTerms  = []string{"high sugar", "fast food", "processed", "junk"}
	poorSleepTerms = []string{"poor", "insomnia", "less than 6", "<6"}

	lowExerciseSet      = map[string]bool{"rarely": true, "never": true, "seldom": true}
	excessiveAlcoholSet = map[string]bool{"heavy": true, "excessive": true, "daily": true}
	highStressSet       = map[string]bool{"high": true, "severe": true, "chronic": true}
	familyHistorySet    = map[string]bool{"yes": true, "true": true, "positive": true}
)

// FactorExtractor detecta factores de riesgo sobre respuestas canonicas.
type FactorExtractor struct {
	rules *config.Ruleset
}

func NewFactorExtractor(rules *config.Ruleset) *FactorExtractor {
	return &FactorExtractor{rules: rules}
}

// Extract evalua un predicado booleano independiente por factor, en el orden
// fijo de domain.AllFactors. Los campos string ausentes cuentan como cadena
// vacia y el booleano ausente como no-true. La confianza global es el promedio
// de las constantes de los factores disparados, o NoFactorConfidence si no se
// disparo ninguno: la ausencia de senales es un resultado confiable, no incierto.
func (e *FactorExtractor) Extract(answers domain.CanonicalAnswers) domain.FactorResult {
	factors := []domain.Factor{}
	confidenceSum := 0.0

	detect := func(f domain.Factor) {
		factors = append(factors, f)
		confidenceSum += e.rules.DetectionConfidence[f.Key()]
	}

	if smoker, ok := answers[domain.FieldSmoker].Bool(); ok && smoker {
		detect(domain.FactorSmoking)
	}
	if containsAny(stringField(answers, domain.FieldDiet), poorDietTerms...) {
		detect(domain.FactorPoorDiet)
	}
	if lowExerciseSet[stringField(answers, domain.FieldExercise)] {
		detect(domain.FactorLowExercise)
	}
	if excessiveAlcoholSet[stringField(answers, domain.FieldAlcohol)] {
		detect(domain.FactorExcessiveAlcohol)
	}
	if containsAny(stringField(answers, domain.FieldSleep), poorSleepTerms...) {
		detect(domain.FactorPoorSleep)
	}
	if highStressSet[stringField(answers, domain.FieldStress)] {
		detect(domain.FactorHighStress)
	}
	if familyHistorySet[stringField(answers, domain.FieldFamilyHistory)] {
		detect(domain.FactorFamilyHistory)
	}

	confidence := e.rules.NoFactorConfidence
	if len(factors) > 0 {
		confidence = round2(confidenceSum / float64(len(factors)))
	}

	return domain.FactorResult{Factors: factors, Confidence: confidence}
}

// stringField devuelve la forma textual en minusculas del campo, o "" si falta.
// family_history puede llegar como booleano passthrough; su forma textual
// ("true") participa igual en el predicado.
func stringField(answers domain.CanonicalAnswers, field string) string {
	v, ok := answers[field]
	if !ok {
		return ""
	}
	return strings.ToLower(v.String())
}

package domain

import (
	"encoding/json"
	"strings"
)

// Nombres de campos de la encuesta de salud.
const (
	FieldAge           = "age"
	FieldSmoker        = "smoker"
	FieldExercise      = "exercise"
	FieldDiet          = "diet"
	FieldAlcohol       = "alcohol"
	FieldSleep         = "sleep"
	FieldStress        = "stress"
	FieldFamilyHistory = "family_history"
)

const (
	StatusOK                = "ok"
	StatusIncompleteProfile = "incomplete_profile"
)

// Factor es uno de los 7 factores de riesgo enumerados.
type Factor string

const (
	FactorSmoking          Factor = "smoking"
	FactorPoorDiet         Factor = "poor diet"
	FactorLowExercise      Factor = "low exercise"
	FactorExcessiveAlcohol Factor = "excessive alcohol"
	FactorPoorSleep        Factor = "poor sleep"
	FactorHighStress       Factor = "high stress"
	FactorFamilyHistory    Factor = "family history"
)

// AllFactors fija el orden de evaluacion de los predicados de extraccion.
var AllFactors = []Factor{
	FactorSmoking,
	FactorPoorDiet,
	FactorLowExercise,
	FactorExcessiveAlcohol,
	FactorPoorSleep,
	FactorHighStress,
	FactorFamilyHistory,
}

// Key devuelve la clave snake_case del factor, usada en la configuracion
// de pesos, etiquetas y recomendaciones.
func (f Factor) Key() string {
	return strings.ReplaceAll(string(f), " ", "_")
}

// RiskLevel es el nivel de riesgo en tres niveles.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// ProfileResult es el resultado etiquetado del Normalizer: respuestas canonicas
// con confianza de completitud, o el estado terminal incomplete_profile.
type ProfileResult struct {
	Answers       CanonicalAnswers
	MissingFields []string
	Confidence    float64
	Status        string
	Reason        string
}

// Incomplete indica si el resultado es el estado terminal del pipeline.
func (r ProfileResult) Incomplete() bool {
	return r.Status == StatusIncompleteProfile
}

// MarshalJSON serializa solo las claves de la variante activa, igual que el
// formato de salida original: {status, reason} o {answers, missing_fields, confidence}.
func (r ProfileResult) MarshalJSON() ([]byte, error) {
	if r.Incomplete() {
		return json.Marshal(struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		}{Status: r.Status, Reason: r.Reason})
	}
	answers := r.Answers
	if answers == nil {
		answers = CanonicalAnswers{}
	}
	missing := r.MissingFields
	if missing == nil {
		missing = []string{}
	}
	return json.Marshal(struct {
		Answers       CanonicalAnswers `json:"answers"`
		MissingFields []string         `json:"missing_fields"`
		Confidence    float64          `json:"confidence"`
	}{Answers: answers, MissingFields: missing, Confidence: r.Confidence})
}

func (r *ProfileResult) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Answers       CanonicalAnswers `json:"answers"`
		MissingFields []string         `json:"missing_fields"`
		Confidence    float64          `json:"confidence"`
		Status        string           `json:"status"`
		Reason        string           `json:"reason"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*r = ProfileResult{
		Answers:       tmp.Answers,
		MissingFields: tmp.MissingFields,
		Confidence:    tmp.Confidence,
		Status:        tmp.Status,
		Reason:        tmp.Reason,
	}
	return nil
}

// FactorResult es la salida del extractor: factores detectados en orden fijo
// y la confianza agregada de la deteccion.
type FactorResult struct {
	Factors    []Factor `json:"factors"`
	Confidence float64  `json:"confidence"`
}

// RiskResult es la clasificacion: nivel, puntaje 0-100 y razones legibles
// emparejadas 1:1 con los factores que las dispararon.
type RiskResult struct {
	RiskLevel RiskLevel `json:"risk_level"`
	Score     int       `json:"score"`
	Rationale []string  `json:"rationale"`
}

// RecommendationResult es la salida final: recomendaciones deduplicadas,
// en orden de primera aparicion y acotadas en longitud.
type RecommendationResult struct {
	RiskLevel       RiskLevel `json:"risk_level"`
	Factors         []Factor  `json:"factors"`
	Recommendations []string  `json:"recommendations"`
	Status          string    `json:"status"`
}

// CompleteResult agrupa las cuatro etapas para el pipeline completo.
type CompleteResult struct {
	Parsing            ProfileResult        `json:"parsing"`
	Factors            FactorResult         `json:"factors"`
	RiskClassification RiskResult           `json:"risk_classification"`
	Recommendations    RecommendationResult `json:"recommendations"`
	Status             string               `json:"status"`
}

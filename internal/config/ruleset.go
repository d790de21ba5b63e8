package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"health-profiler/internal/domain"
)

// TierMessages son los mensajes generales por nivel de riesgo.
// HighUrgent se antepone al inicio de la lista; HighScreening se agrega al final.
type TierMessages struct {
	HighUrgent    string   `koanf:"high_urgent" yaml:"high_urgent"`
	HighScreening string   `koanf:"high_screening" yaml:"high_screening"`
	Moderate      []string `koanf:"moderate" yaml:"moderate"`
	Low           []string `koanf:"low" yaml:"low"`
}

// Ruleset es la configuracion estatica y versionable del pipeline: vocabulario
// de campos, pesos de riesgo, confianzas de deteccion, umbrales y tablas de
// recomendaciones. Inmutable despues de cargarse; las etapas la comparten por referencia.
type Ruleset struct {
	RequiredFields      []string             `koanf:"required_fields" yaml:"required_fields"`
	OptionalFields      []string             `koanf:"optional_fields" yaml:"optional_fields"`
	Weights             map[string]int       `koanf:"risk_weights" yaml:"risk_weights"`
	DetectionConfidence map[string]float64   `koanf:"detection_confidence" yaml:"detection_confidence"`
	NoFactorConfidence  float64              `koanf:"no_factor_confidence" yaml:"no_factor_confidence"`
	MinConfidence       float64              `koanf:"min_confidence" yaml:"min_confidence"`
	HighThreshold       int                  `koanf:"high_threshold" yaml:"high_threshold"`
	ModerateThreshold   int                  `koanf:"moderate_threshold" yaml:"moderate_threshold"`
	ScoreCap            int                  `koanf:"score_cap" yaml:"score_cap"`
	RationaleLabels     map[string]string    `koanf:"rationale_labels" yaml:"rationale_labels"`
	Recommendations     map[string][]string  `koanf:"recommendations" yaml:"recommendations"`
	TierMessages        TierMessages         `koanf:"tier_messages" yaml:"tier_messages"`
	MaxRecommendations  int                  `koanf:"max_recommendations" yaml:"max_recommendations"`
}

// DefaultRuleset devuelve las reglas de fabrica del perfilador.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		RequiredFields: []string{
			domain.FieldAge,
			domain.FieldSmoker,
			domain.FieldExercise,
			domain.FieldDiet,
		},
		OptionalFields: []string{
			domain.FieldAlcohol,
			domain.FieldSleep,
			domain.FieldStress,
			domain.FieldFamilyHistory,
		},
		Weights: map[string]int{
			"smoking":           25,
			"poor_diet":         20,
			"low_exercise":      15,
			"excessive_alcohol": 15,
			"poor_sleep":        10,
			"high_stress":       10,
			"family_history":    15,
		},
		DetectionConfidence: map[string]float64{
			"smoking":           0.95,
			"poor_diet":         0.90,
			"low_exercise":      0.85,
			"excessive_alcohol": 0.90,
			"poor_sleep":        0.80,
			"high_stress":       0.85,
			"family_history":    0.90,
		},
		NoFactorConfidence: 0.95,
		MinConfidence:      0.7,
		HighThreshold:      70,
		ModerateThreshold:  40,
		ScoreCap:           100,
		RationaleLabels: map[string]string{
			"smoking":           "smoking",
			"poor_diet":         "high sugar diet",
			"low_exercise":      "low activity",
			"excessive_alcohol": "excessive alcohol consumption",
			"poor_sleep":        "poor sleep quality",
			"high_stress":       "high stress levels",
			"family_history":    "family history of health issues",
		},
		Recommendations: map[string][]string{
			"smoking": {
				"Quit smoking immediately - consult a healthcare provider for cessation programs",
				"Consider nicotine replacement therapy",
				"Join a smoking cessation support group",
			},
			"poor_diet": {
				"Reduce sugar intake and processed foods",
				"Increase consumption of fruits and vegetables",
				"Consult a nutritionist for a personalized meal plan",
			},
			"low_exercise": {
				"Walk 30 minutes daily",
				"Start with light exercises and gradually increase intensity",
				"Consider joining a gym or fitness class",
			},
			"excessive_alcohol": {
				"Limit alcohol consumption to recommended guidelines",
				"Seek professional help if needed",
				"Replace alcohol with healthier beverages",
			},
			"poor_sleep": {
				"Maintain a regular sleep schedule",
				"Create a comfortable sleep environment",
				"Avoid caffeine and screens before bedtime",
			},
			"high_stress": {
				"Practice stress management techniques like meditation",
				"Consider counseling or therapy",
				"Engage in relaxing activities like yoga",
			},
			"family_history": {
				"Schedule regular health checkups",
				"Discuss family history with your healthcare provider",
				"Consider preventive screening tests",
			},
		},
		TierMessages: TierMessages{
			HighUrgent:    "Consult a healthcare provider immediately",
			HighScreening: "Consider comprehensive health screening",
			Moderate: []string{
				"Schedule a routine health checkup",
				"Monitor your health metrics regularly",
			},
			Low: []string{
				"Maintain current healthy lifestyle",
				"Continue regular health monitoring",
			},
		},
		MaxRecommendations: 10,
	}
}

// LoadRuleset parte de los defaults, superpone el archivo YAML si existe y
// luego overrides de entorno con prefijo PROFILER_ (PROFILER_HIGH_THRESHOLD -> high_threshold).
func LoadRuleset(path string) (*Ruleset, error) {
	k := koanf.New(".")

	rules := DefaultRuleset()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading ruleset %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing ruleset %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("PROFILER_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PROFILER_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", rules); err != nil {
		return nil, fmt.Errorf("unmarshalling ruleset: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate revisa que las tablas cubran los 7 factores y que los umbrales tengan sentido.
func (r *Ruleset) Validate() error {
	if len(r.RequiredFields) == 0 {
		return fmt.Errorf("required_fields must not be empty")
	}
	for _, f := range domain.AllFactors {
		key := f.Key()
		if _, ok := r.Weights[key]; !ok {
			return fmt.Errorf("risk_weights missing factor %q", key)
		}
		if _, ok := r.DetectionConfidence[key]; !ok {
			return fmt.Errorf("detection_confidence missing factor %q", key)
		}
		if _, ok := r.RationaleLabels[key]; !ok {
			return fmt.Errorf("rationale_labels missing factor %q", key)
		}
		if len(r.Recommendations[key]) == 0 {
			return fmt.Errorf("recommendations missing factor %q", key)
		}
	}
	if r.ModerateThreshold <= 0 || r.HighThreshold <= r.ModerateThreshold {
		return fmt.Errorf("thresholds must satisfy 0 < moderate (%d) < high (%d)", r.ModerateThreshold, r.HighThreshold)
	}
	if r.ScoreCap < r.HighThreshold {
		return fmt.Errorf("score_cap %d must be >= high_threshold %d", r.ScoreCap, r.HighThreshold)
	}
	if r.NoFactorConfidence <= 0 || r.NoFactorConfidence > 1 {
		return fmt.Errorf("no_factor_confidence must be in (0,1]")
	}
	if r.MaxRecommendations <= 0 {
		return fmt.Errorf("max_recommendations must be positive")
	}
	return nil
}

// IsRequired indica si el campo pertenece al conjunto requerido.
func (r *Ruleset) IsRequired(field string) bool {
	for _, f := range r.RequiredFields {
		if f == field {
			return true
		}
	}
	return false
}

// AllFields devuelve el vocabulario completo en orden fijo: requeridos y luego opcionales.
func (r *Ruleset) AllFields() []string {
	fields := make([]string, 0, len(r.RequiredFields)+len(r.OptionalFields))
	fields = append(fields, r.RequiredFields...)
	fields = append(fields, r.OptionalFields...)
	return fields
}

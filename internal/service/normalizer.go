package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"health-profiler/internal/config"
	"health-profiler/internal/domain"
)

// ErrCoercion marca fallas de coercion de tipo (p.ej. edad no numerica).
// Es un error de etapa, no tumba el proceso.
var ErrCoercion = errors.New("coercion error")

// Normalizer lleva respuestas crudas a su forma canonica y detecta perfiles incompletos.
type Normalizer struct {
	rules *config.Ruleset
}

func NewNormalizer(rules *config.Ruleset) *Normalizer {
	return &Normalizer{rules: rules}
}

// Normalize recorre el vocabulario completo en orden fijo (requeridos y luego
// opcionales), coerciona cada campo presente y acumula los requeridos ausentes.
// Si falta mas del 50% de los campos requeridos devuelve el resultado terminal
// incomplete_profile; los stages siguientes nunca se invocan en ese caso.
func (n *Normalizer) Normalize(data domain.RawAnswers) (domain.ProfileResult, error) {
	answers := domain.CanonicalAnswers{}
	missing := []string{}

	for _, field := range n.rules.AllFields() {
		value, present := data[field]
		if !present {
			if n.rules.IsRequired(field) {
				missing = append(missing, field)
			}
			continue
		}
		coerced, err := coerceField(field, value)
		if err != nil {
			return domain.ProfileResult{}, err
		}
		answers[field] = coerced
	}

	total := len(n.rules.RequiredFields)
	confidence := round2(float64(total-len(missing)) / float64(total))

	if float64(len(missing))/float64(total) > 0.5 {
		return domain.ProfileResult{
			Status: domain.StatusIncompleteProfile,
			Reason: fmt.Sprintf(">50%% required fields missing: %s", strings.Join(missing, ", ")),
		}, nil
	}

	return domain.ProfileResult{
		Answers:       answers,
		MissingFields: missing,
		Confidence:    confidence,
	}, nil
}

// coerceField aplica la coercion declarada por campo. Cada campo presente se
// coerciona de forma independiente; nunca hay normalizacion parcial.
func coerceField(field string, v domain.Value) (domain.Value, error) {
	switch field {
	case domain.FieldAge:
		return coerceAge(v)
	case domain.FieldSmoker:
		return coerceSmoker(v), nil
	case domain.FieldExercise, domain.FieldDiet, domain.FieldAlcohol, domain.FieldSleep, domain.FieldStress:
		return domain.NewString(strings.ToLower(strings.TrimSpace(v.String()))), nil
	default:
		// family_history y cualquier otro campo conocido pasan sin modificar.
		return v, nil
	}
}

func coerceAge(v domain.Value) (domain.Value, error) {
	switch v.Kind() {
	case domain.KindInt:
		return v, nil
	case domain.KindString:
		s, _ := v.Text()
		age, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return domain.Value{}, fmt.Errorf("%w: field %q: %q is not numeric", ErrCoercion, domain.FieldAge, s)
		}
		return domain.NewInt(age), nil
	default:
		return domain.Value{}, fmt.Errorf("%w: field %q: value %s is not numeric", ErrCoercion, domain.FieldAge, v)
	}
}

func coerceSmoker(v domain.Value) domain.Value {
	switch v.Kind() {
	case domain.KindBool:
		return v
	case domain.KindString:
		s, _ := v.Text()
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "true", "y", "1":
			return domain.NewBool(true)
		default:
			return domain.NewBool(false)
		}
	default:
		i, _ := v.Int()
		return domain.NewBool(i != 0)
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

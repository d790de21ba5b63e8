package service

import (
	"regexp"
	"strconv"
	"strings"

	"health-profiler/internal/domain"
)

var ageLinePattern = regexp.MustCompile(`age[:\s]*(\d+)`)

// cueTable mapea pistas de substring a un valor canonico; el orden importa,
// gana la primera pista que aparezca en la linea.
type cueTable []struct {
	terms []string
	value string
}

var exerciseCues = cueTable{
	{terms: []string{"rarely", "never"}, value: "rarely"},
	{terms: []string{"sometimes", "moderate"}, value: "sometimes"},
	{terms: []string{"often", "regular"}, value: "often"},
	{terms: []string{"daily"}, value: "daily"},
}

var dietCues = cueTable{
	{terms: []string{"high sugar", "sweet"}, value: "high sugar"},
	{terms: []string{"balanced"}, value: "balanced"},
	{terms: []string{"low fat"}, value: "low fat"},
	{terms: []string{"vegetarian"}, value: "vegetarian"},
}

var alcoholCues = cueTable{
	{terms: []string{"never", "no"}, value: "never"},
	{terms: []string{"rarely"}, value: "rarely"},
	{terms: []string{"moderate"}, value: "moderate"},
	{terms: []string{"heavy", "excessive"}, value: "heavy"},
}

func (t cueTable) match(line string) (string, bool) {
	for _, cue := range t {
		for _, term := range cue.terms {
			if strings.Contains(line, term) {
				return cue.value, true
			}
		}
	}
	return "", false
}

// LineParser convierte texto reconocido por OCR en un mapa de respuestas crudas
// usando heuristicas de keywords por linea.
type LineParser struct{}

// Parse procesa el texto linea por linea. Cada linea se pasa a minusculas y se
// recorta; las vacias se saltan. Por linea se infiere a lo sumo un campo con
// precedencia fija: age, smoker, exercise, diet, alcohol. Una linea posterior
// sobreescribe el valor de una anterior para el mismo campo.
// Un resultado vacio no es un error: simplemente no hubo pistas reconocibles.
func (LineParser) Parse(rawText string) domain.RawAnswers {
	answers := domain.RawAnswers{}

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "age"):
			if m := ageLinePattern.FindStringSubmatch(line); m != nil {
				if age, err := strconv.Atoi(m[1]); err == nil {
					answers[domain.FieldAge] = domain.NewInt(age)
				}
			}

		case strings.Contains(line, "smok"):
			if containsAny(line, "yes", "true", "y") {
				answers[domain.FieldSmoker] = domain.NewBool(true)
			} else if containsAny(line, "no", "false", "n") {
				answers[domain.FieldSmoker] = domain.NewBool(false)
			}

		case strings.Contains(line, "exercise") || strings.Contains(line, "activity"):
			if v, ok := exerciseCues.match(line); ok {
				answers[domain.FieldExercise] = domain.NewString(v)
			}

		case strings.Contains(line, "diet") || strings.Contains(line, "food"):
			if v, ok := dietCues.match(line); ok {
				answers[domain.FieldDiet] = domain.NewString(v)
			}

		case strings.Contains(line, "alcohol") || strings.Contains(line, "drink"):
			if v, ok := alcoholCues.match(line); ok {
				answers[domain.FieldAlcohol] = domain.NewString(v)
			}
		}
	}

	return answers
}

func containsAny(line string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(line, term) {
			return true
		}
	}
	return false
}

package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"go.uber.org/zap"

	"health-profiler/internal/config"
	"health-profiler/internal/domain"
	"health-profiler/internal/ocr"
)

const scannedSurvey = `Age: 58
Smoker: yes
Exercise: rarely
Diet: high sugar
Alcohol: heavy`

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			v := uint8(30)
			if x > 5 {
				v = 220
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func newTestPipeline(engine ocr.Engine) *Pipeline {
	return NewPipeline(config.DefaultRuleset(), engine, zap.NewNop())
}

func TestAnalyzeAnswersEndToEnd(t *testing.T) {
	p := newTestPipeline(&ocr.MockEngine{})

	result, err := p.AnalyzeAnswers(domain.RawAnswers{
		"age":      domain.NewInt(58),
		"smoker":   domain.NewBool(true),
		"exercise": domain.NewString("rarely"),
		"diet":     domain.NewString("high sugar"),
		"alcohol":  domain.NewString("heavy"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok status, got %s", result.Status)
	}
	if result.Parsing.Confidence != 1.0 {
		t.Fatalf("expected parsing confidence 1.0, got %v", result.Parsing.Confidence)
	}
	wantFactors := []domain.Factor{
		domain.FactorSmoking,
		domain.FactorPoorDiet,
		domain.FactorLowExercise,
		domain.FactorExcessiveAlcohol,
	}
	if len(result.Factors.Factors) != len(wantFactors) {
		t.Fatalf("expected factors %v, got %v", wantFactors, result.Factors.Factors)
	}
	for i, f := range wantFactors {
		if result.Factors.Factors[i] != f {
			t.Fatalf("expected factor %s at %d, got %s", f, i, result.Factors.Factors[i])
		}
	}
	if result.RiskClassification.Score != 75 {
		t.Fatalf("expected score 75, got %d", result.RiskClassification.Score)
	}
	if result.RiskClassification.RiskLevel != domain.RiskHigh {
		t.Fatalf("expected high risk, got %s", result.RiskClassification.RiskLevel)
	}
	recs := result.Recommendations.Recommendations
	if len(recs) == 0 || recs[0] != "Consult a healthcare provider immediately" {
		t.Fatalf("expected urgent recommendation first, got %v", recs)
	}
}

func TestAnalyzeAnswersIncompleteShortCircuits(t *testing.T) {
	p := newTestPipeline(&ocr.MockEngine{})

	result, err := p.AnalyzeAnswers(domain.RawAnswers{"age": domain.NewInt(40)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != domain.StatusIncompleteProfile {
		t.Fatalf("expected incomplete status, got %s", result.Status)
	}
	if !result.Parsing.Incomplete() {
		t.Fatalf("expected incomplete parsing result")
	}
	// Las etapas posteriores nunca corren.
	if len(result.Factors.Factors) != 0 || result.RiskClassification.Score != 0 {
		t.Fatalf("downstream stages must not run on incomplete profile: %+v", result)
	}
}

func TestAnalyzeAnswersCoercionError(t *testing.T) {
	p := newTestPipeline(&ocr.MockEngine{})

	_, err := p.AnalyzeAnswers(domain.RawAnswers{
		"age":      domain.NewString("not a number"),
		"smoker":   domain.NewBool(false),
		"exercise": domain.NewString("daily"),
		"diet":     domain.NewString("balanced"),
	})
	if !errors.Is(err, ErrCoercion) {
		t.Fatalf("expected ErrCoercion, got %v", err)
	}
}

func TestAnalyzeImageEndToEnd(t *testing.T) {
	p := newTestPipeline(&ocr.MockEngine{Text: scannedSurvey})

	result, err := p.AnalyzeImage(context.Background(), testPNG(t))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != domain.StatusOK {
		t.Fatalf("expected ok status, got %s", result.Status)
	}
	if age, ok := result.Parsing.Answers["age"].Int(); !ok || age != 58 {
		t.Fatalf("expected parsed age 58, got %+v", result.Parsing.Answers["age"])
	}
	if result.RiskClassification.RiskLevel != domain.RiskHigh {
		t.Fatalf("expected high risk from scanned survey, got %s", result.RiskClassification.RiskLevel)
	}
}

func TestAnalyzeImageRecognitionFailure(t *testing.T) {
	p := newTestPipeline(&ocr.MockEngine{Err: errors.New("tesseract exploded")})

	_, err := p.AnalyzeImage(context.Background(), testPNG(t))
	if err == nil {
		t.Fatalf("expected recognition error")
	}
}

func TestAnalyzeImageBadImageBytes(t *testing.T) {
	p := newTestPipeline(&ocr.MockEngine{Text: scannedSurvey})

	_, err := p.AnalyzeImage(context.Background(), []byte("definitely not an image"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseLinesThenNormalizeRoundTrip(t *testing.T) {
	p := newTestPipeline(&ocr.MockEngine{})

	// Lineas bien formadas nunca deben romper el normalizador; lo no matcheado
	// aparece como missing_fields.
	raw := p.ParseLines("Age: 29\ncompletely unrelated line\nSmoker: no")
	result, err := p.ParseText(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Incomplete() {
		t.Fatalf("2 of 4 required present is exactly 50%% missing, not terminal: %+v", result)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("expected confidence 0.5, got %v", result.Confidence)
	}
	if len(result.MissingFields) != 2 {
		t.Fatalf("expected exercise and diet missing, got %v", result.MissingFields)
	}
	if age, ok := result.Answers["age"].Int(); !ok || age != 29 {
		t.Fatalf("expected integer age 29 after round trip, got %+v", result.Answers["age"])
	}
}

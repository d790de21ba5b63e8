package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"health-profiler/internal/config"
	"health-profiler/internal/domain"
	"health-profiler/internal/ocr"
)

// Pipeline encadena las cuatro etapas del perfilador y la entrada por imagen.
// Todas las etapas son funciones puras sobre inputs inmutables; invocaciones
// concurrentes para perfiles distintos son independientes y seguras.
type Pipeline struct {
	parser      LineParser
	normalizer  *Normalizer
	extractor   *FactorExtractor
	classifier  *RiskClassifier
	recommender *Recommender
	engine      ocr.Engine
	logger      *zap.Logger
}

func NewPipeline(rules *config.Ruleset, engine ocr.Engine, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		normalizer:  NewNormalizer(rules),
		extractor:   NewFactorExtractor(rules),
		classifier:  NewRiskClassifier(rules),
		recommender: NewRecommender(rules),
		engine:      engine,
		logger:      logger,
	}
}

// ParseText normaliza respuestas crudas (entrada estructurada).
func (p *Pipeline) ParseText(data domain.RawAnswers) (domain.ProfileResult, error) {
	return p.normalizer.Normalize(data)
}

// ParseLines convierte texto OCR en respuestas crudas.
func (p *Pipeline) ParseLines(rawText string) domain.RawAnswers {
	return p.parser.Parse(rawText)
}

// ExtractFactors corre el extractor sobre respuestas canonicas.
func (p *Pipeline) ExtractFactors(answers domain.CanonicalAnswers) domain.FactorResult {
	return p.extractor.Extract(answers)
}

// ClassifyRisk corre el clasificador sobre la lista de factores.
func (p *Pipeline) ClassifyRisk(factors []domain.Factor) domain.RiskResult {
	return p.classifier.Classify(factors)
}

// Recommend compone las recomendaciones para un nivel y factores dados.
func (p *Pipeline) Recommend(level domain.RiskLevel, factors []domain.Factor) domain.RecommendationResult {
	return p.recommender.Recommend(level, factors)
}

// ParseImage cubre la entrada por imagen: preprocesa, reconoce texto con el
// engine OCR y normaliza las lineas parseadas. Una falla de reconocimiento es
// un error de pipeline, no se reintenta aqui.
func (p *Pipeline) ParseImage(ctx context.Context, img []byte) (domain.ProfileResult, error) {
	processed, err := ocr.Preprocess(img)
	if err != nil {
		return domain.ProfileResult{}, fmt.Errorf("preprocess image: %w", err)
	}

	text, err := p.engine.Recognize(ctx, processed)
	if err != nil {
		return domain.ProfileResult{}, fmt.Errorf("ocr recognize: %w", err)
	}

	return p.normalizer.Normalize(p.parser.Parse(text))
}

// AnalyzeAnswers corre el pipeline completo sobre entrada estructurada. El
// pipeline se detiene en el primer resultado de error o perfil incompleto y lo
// devuelve sin modificar.
func (p *Pipeline) AnalyzeAnswers(data domain.RawAnswers) (domain.CompleteResult, error) {
	profile, err := p.normalizer.Normalize(data)
	if err != nil {
		return domain.CompleteResult{}, err
	}
	return p.complete(profile), nil
}

// AnalyzeImage corre el pipeline completo sobre una imagen escaneada.
func (p *Pipeline) AnalyzeImage(ctx context.Context, img []byte) (domain.CompleteResult, error) {
	profile, err := p.ParseImage(ctx, img)
	if err != nil {
		return domain.CompleteResult{}, err
	}
	return p.complete(profile), nil
}

func (p *Pipeline) complete(profile domain.ProfileResult) domain.CompleteResult {
	if profile.Incomplete() {
		return domain.CompleteResult{
			Parsing: profile,
			Status:  domain.StatusIncompleteProfile,
		}
	}

	factors := p.extractor.Extract(profile.Answers)
	risk := p.classifier.Classify(factors.Factors)
	recs := p.recommender.Recommend(risk.RiskLevel, factors.Factors)

	if p.logger != nil {
		p.logger.Info("profile analyzed",
			zap.Int("score", risk.Score),
			zap.String("risk_level", string(risk.RiskLevel)),
			zap.Int("factors", len(factors.Factors)),
		)
	}

	return domain.CompleteResult{
		Parsing:            profile,
		Factors:            factors,
		RiskClassification: risk,
		Recommendations:    recs,
		Status:             domain.StatusOK,
	}
}

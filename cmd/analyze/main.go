// Comando de linea para correr el pipeline completo sobre un archivo local:
// respuestas en JSON o una imagen de encuesta (requiere tesseract instalado).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"health-profiler/internal/config"
	"health-profiler/internal/domain"
	"health-profiler/internal/ocr"
	"health-profiler/internal/service"
)

func main() {
	input := flag.String("input", "", "ruta a un .json de respuestas o a una imagen de encuesta")
	rulesetPath := flag.String("ruleset", "", "ruta opcional a un ruleset.yaml")
	language := flag.String("lang", "eng", "idioma OCR para imagenes")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger := zap.NewExample()
	defer logger.Sync()

	rules, err := config.LoadRuleset(*rulesetPath)
	if err != nil {
		log.Fatalf("load ruleset: %v", err)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	pipeline := service.NewPipeline(rules, ocr.NewTesseractEngine(*language), logger)

	var result domain.CompleteResult
	if strings.EqualFold(filepath.Ext(*input), ".json") {
		var answers domain.RawAnswers
		if err := json.Unmarshal(data, &answers); err != nil {
			log.Fatalf("parse answers: %v", err)
		}
		result, err = pipeline.AnalyzeAnswers(answers)
	} else {
		result, err = pipeline.AnalyzeImage(context.Background(), data)
	}
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	var out []byte
	if result.Status == domain.StatusIncompleteProfile {
		out, err = json.MarshalIndent(result.Parsing, "", "  ")
	} else {
		out, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

package ocr

import (
	"context"
	"errors"
)

// Engine define la capacidad opaca de reconocimiento: imagen -> texto crudo.
type Engine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

type disabledEngine struct {
	reason string
}

// NewDisabledEngine devuelve un Engine que siempre falla con la razon dada.
// Se usa cuando el servicio corre sin tesseract configurado.
func NewDisabledEngine(reason string) Engine {
	return &disabledEngine{reason: reason}
}

func (e *disabledEngine) Recognize(_ context.Context, _ []byte) (string, error) {
	if e.reason == "" {
		return "", errors.New("ocr engine disabled")
	}
	return "", errors.New(e.reason)
}

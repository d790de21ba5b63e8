package ocr

import "context"

// MockEngine permite tests sin correr tesseract real.
type MockEngine struct {
	Text string
	Err  error
}

func (m *MockEngine) Recognize(ctx context.Context, img []byte) (string, error) {
	return m.Text, m.Err
}

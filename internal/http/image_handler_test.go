package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"health-profiler/internal/ocr"
)

const scannedSurvey = `Age: 58
Smoker: yes
Exercise: rarely
Diet: high sugar`

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := uint8(20)
			if x >= 5 {
				v = 230
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

func postMultipart(t *testing.T, router *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected upload dir cleaned, found %d entries", len(entries))
	}
}

func TestParseImageHappyPath(t *testing.T) {
	router, dir := newTestServer(t, &ocr.MockEngine{Text: scannedSurvey}, nil)

	rec := postMultipart(t, router, "/parse-image", "survey.png", testPNG(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Answers    map[string]json.RawMessage `json:"answers"`
		Confidence float64                    `json:"confidence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(body.Answers["age"]) != `58` {
		t.Fatalf("expected parsed age 58, got %s", body.Answers["age"])
	}
	if body.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", body.Confidence)
	}
	assertEmptyDir(t, dir)
}

func TestParseImageRejectsBadExtension(t *testing.T) {
	router, dir := newTestServer(t, &ocr.MockEngine{Text: scannedSurvey}, nil)

	rec := postMultipart(t, router, "/parse-image", "survey.pdf", testPNG(t))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for pdf, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid image format") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	assertEmptyDir(t, dir)
}

func TestParseImageRequiresFile(t *testing.T) {
	router, _ := newTestServer(t, &ocr.MockEngine{}, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/parse-image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without image field, got %d", rec.Code)
	}
}

func TestParseImageRecognitionFailureCleansUp(t *testing.T) {
	router, dir := newTestServer(t, &ocr.MockEngine{Err: errors.New("ocr backend down")}, nil)

	rec := postMultipart(t, router, "/parse-image", "survey.png", testPNG(t))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on recognition failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ocr processing error") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	// La subida temporal se libera tambien en el camino de error.
	assertEmptyDir(t, dir)
}

func TestParseImageIncompleteProfile(t *testing.T) {
	router, dir := newTestServer(t, &ocr.MockEngine{Text: "Age: 20\nnothing else useful"}, nil)

	rec := postMultipart(t, router, "/parse-image", "survey.png", testPNG(t))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete scan, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "incomplete_profile") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	assertEmptyDir(t, dir)
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestParseImageRateLimited(t *testing.T) {
	router, dir := newTestServer(t, &ocr.MockEngine{Text: scannedSurvey}, denyAllLimiter{})

	rec := postMultipart(t, router, "/parse-image", "survey.png", testPNG(t))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	assertEmptyDir(t, dir)
}

func TestAnalyzeCompleteJSONBody(t *testing.T) {
	router, _ := newTestServer(t, &ocr.MockEngine{}, nil)

	rec := postJSON(t, router, "/analyze-complete",
		`{"age": 58, "smoker": true, "exercise": "rarely", "diet": "high sugar", "alcohol": "heavy"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Parsing struct {
			Confidence float64 `json:"confidence"`
		} `json:"parsing"`
		RiskClassification struct {
			RiskLevel string `json:"risk_level"`
			Score     int    `json:"score"`
		} `json:"risk_classification"`
		Recommendations struct {
			Recommendations []string `json:"recommendations"`
		} `json:"recommendations"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected ok status, got %q", body.Status)
	}
	if body.RiskClassification.Score != 75 || body.RiskClassification.RiskLevel != "high" {
		t.Fatalf("expected 75/high, got %d/%s", body.RiskClassification.Score, body.RiskClassification.RiskLevel)
	}
	if len(body.Recommendations.Recommendations) == 0 {
		t.Fatalf("expected recommendations in complete result")
	}
}

func TestAnalyzeCompleteIncompleteJSON(t *testing.T) {
	router, _ := newTestServer(t, &ocr.MockEngine{}, nil)

	rec := postJSON(t, router, "/analyze-complete", `{"age": 58}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "incomplete_profile") {
		t.Fatalf("expected incomplete_profile body, got %s", rec.Body.String())
	}
}

func TestAnalyzeCompleteMultipart(t *testing.T) {
	router, dir := newTestServer(t, &ocr.MockEngine{Text: scannedSurvey}, nil)

	rec := postMultipart(t, router, "/analyze-complete", "survey.jpeg", testPNG(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("expected complete ok result, got %s", rec.Body.String())
	}
	assertEmptyDir(t, dir)
}

func TestAnalyzeCompleteNoData(t *testing.T) {
	router, _ := newTestServer(t, &ocr.MockEngine{}, nil)

	rec := postJSON(t, router, "/analyze-complete", `null`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for null body, got %d", rec.Code)
	}
}

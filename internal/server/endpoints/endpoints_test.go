package endpoints

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rovlad/meddoc-parse/internal/analyze"
	"github.com/Rovlad/meddoc-parse/internal/api"
	"github.com/Rovlad/meddoc-parse/internal/classify"
	"github.com/Rovlad/meddoc-parse/internal/docschema"
	"github.com/Rovlad/meddoc-parse/internal/extract"
	"github.com/Rovlad/meddoc-parse/internal/normalize"
	"github.com/Rovlad/meddoc-parse/internal/providers"
	"github.com/Rovlad/meddoc-parse/internal/svcctx"
	"github.com/Rovlad/meddoc-parse/internal/testutil"
)

// newTestHandler builds the full route table backed by the given mock client.
func newTestHandler(t *testing.T, mock *providers.MockClient) http.Handler {
	t.Helper()

	schemas, err := docschema.NewRegistry()
	if err != nil {
		t.Fatalf("failed to build schema registry: %v", err)
	}
	analyzer := analyze.New(
		analyze.Config{},
		normalize.New(normalize.Config{}, nil),
		classify.New(mock, nil),
		extract.New(mock, schemas, nil),
		nil,
	)
	services := &svcctx.Services{Analyzer: analyzer, Vision: mock}

	registry := api.NewRegistry()
	for _, ep := range All(Config{}) {
		registry.Register(ep)
	}
	mux := http.NewServeMux()
	registry.RegisterRoutes(mux, nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), services)))
	})
}

// multipartUpload builds a multipart body with one file field.
func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t, providers.NewMockClient())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Model != providers.MockClientName {
		t.Errorf("model = %q", resp.Model)
	}
}

func TestSupportedDocumentsEndpoint(t *testing.T) {
	handler := newTestHandler(t, providers.NewMockClient())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/supported-documents", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp SupportedDocumentsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.SupportedTypes) != 4 {
		t.Fatalf("types = %d, want 4", len(resp.SupportedTypes))
	}
	if resp.SupportedTypes[0].Type != "prescription" {
		t.Errorf("first type = %q", resp.SupportedTypes[0].Type)
	}
	for _, info := range resp.SupportedTypes {
		if info.Name == "" || info.Description == "" {
			t.Errorf("type %q missing name or description", info.Type)
		}
	}
}

func TestRootEndpoint(t *testing.T) {
	handler := newTestHandler(t, providers.NewMockClient())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp RootResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Health != "/api/v1/health" {
		t.Errorf("health = %q", resp.Health)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Run("successful analysis", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseFunc = func(req *providers.VisionRequest) (string, error) {
			if req.JSONOnly {
				return `{
					"patient_name": "Jane Smith",
					"doctor_name": "Dr. House",
					"prescription_date": "2024-03-01",
					"medications": [{"name": "Amoxicillin", "dosage": "500mg", "frequency": "3x daily", "duration": "7 days"}]
				}`, nil
			}
			return `{"document_type": "prescription", "confidence": 0.9}`, nil
		}
		handler := newTestHandler(t, mock)

		body, contentType := multipartUpload(t, "rx.png", testutil.PNG(t, 600, 400))
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var result analyze.Result
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !result.Success {
			t.Errorf("success = false, error = %q", result.Error)
		}
		if result.DocumentType != "prescription" {
			t.Errorf("type = %q", result.DocumentType)
		}
		if result.Data["patient_name"] != "Jane Smith" {
			t.Errorf("data = %v", result.Data)
		}
	})

	t.Run("unsupported extension returns 400", func(t *testing.T) {
		handler := newTestHandler(t, providers.NewMockClient())

		body, contentType := multipartUpload(t, "notes.txt", []byte("hello"))
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.Contains(resp.Error, "unsupported file format") {
			t.Errorf("error = %q", resp.Error)
		}
	})

	t.Run("unreadable file returns 400", func(t *testing.T) {
		handler := newTestHandler(t, providers.NewMockClient())

		body, contentType := multipartUpload(t, "x.jpg", []byte("not an image"))
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("missing file field returns 400", func(t *testing.T) {
		handler := newTestHandler(t, providers.NewMockClient())

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		mw.WriteField("other", "value")
		mw.Close()

		req := httptest.NewRequest("POST", "/api/v1/analyze", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("pipeline failure still returns 200 with error record", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseFunc = func(req *providers.VisionRequest) (string, error) {
			if req.JSONOnly {
				return "", &providers.ServiceUnavailableError{StatusCode: 503, Message: "down"}
			}
			return `{"document_type": "prescription", "confidence": 0.9}`, nil
		}
		handler := newTestHandler(t, mock)

		body, contentType := multipartUpload(t, "rx.png", testutil.PNG(t, 400, 400))
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var result analyze.Result
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Success {
			t.Error("expected failed analysis record")
		}
		if result.Error == "" {
			t.Error("expected error message")
		}
	})

	t.Run("uninitialized service returns 503", func(t *testing.T) {
		registry := api.NewRegistry()
		for _, ep := range All(Config{}) {
			registry.Register(ep)
		}
		mux := http.NewServeMux()
		registry.RegisterRoutes(mux, nil)

		body, contentType := multipartUpload(t, "rx.png", []byte("x"))
		req := httptest.NewRequest("POST", "/api/v1/analyze", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

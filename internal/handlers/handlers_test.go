package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/lehigh-university-libraries/booktab/internal/catalog"
	"github.com/lehigh-university-libraries/booktab/internal/config"
	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/settings"
	"github.com/lehigh-university-libraries/booktab/internal/storage"
)

const sampleCSV = "ΚΩΔΙΚΟΣ,ΤΙΤΛΟΣ,ΣΥΓΓΡΑΦΕΑΣ,ΕΚΘΕΣΗ\n" +
	"12ΑΒγδ345,Η Μεγάλη Χίμαιρα,Μ. Καραγάτσης,Ε\n" +
	"3Κλμ10,Ο Καπετάν Μιχάλης,Νίκος Καζαντζάκης,\n"

func newTestHandler(t *testing.T) (*Handler, *catalog.Service) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Search.MinLength = 2
	cfg.Import.Encoding = "utf-8"
	cfg.Import.MaxFileSize = 1 << 20

	prefs := settings.Open("")
	books := catalog.NewService(storage.NewMemory(), prefs)
	books.Init(context.Background())
	return New(books, prefs, cfg), books
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthcheck(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("Expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestImportAndSearch(t *testing.T) {
	h, books := newTestHandler(t)
	routes := h.Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, uploadRequest(t, "books.csv", sampleCSV))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if books.Len() != 2 {
		t.Fatalf("Expected 2 books, got %d", books.Len())
	}

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{name: "no query", query: "", expected: 2},
		{name: "short query lists all", query: "κ", expected: 2},
		{name: "author match", query: "καζαντζακης", expected: 1},
		{name: "no match", query: "σεφερης", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/books?q="+url.QueryEscape(tt.query), nil)
			routes.ServeHTTP(rec, req)

			var response struct {
				Books []models.Book `json:"books"`
				Count int           `json:"count"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Invalid JSON %q: %v", rec.Body.String(), err)
			}
			if response.Count != tt.expected || len(response.Books) != tt.expected {
				t.Errorf("Expected %d books, got %d (count %d)", tt.expected, len(response.Books), response.Count)
			}
		})
	}
}

func TestImportMappingFailure(t *testing.T) {
	h, books := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, uploadRequest(t, "books.csv", "ΤΙΤΛΟΣ,Σχόλια\nΑ,Β\n"))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}
	var response struct {
		Headers []string `json:"headers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(response.Headers) != 1 || response.Headers[0] != "Σχόλια" {
		t.Errorf("Expected [Σχόλια], got %v", response.Headers)
	}
	if books.HasData() {
		t.Error("Expected catalog to stay empty")
	}
}

func TestImportEmptySpreadsheet(t *testing.T) {
	h, books := newTestHandler(t)
	routes := h.Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, uploadRequest(t, "books.csv", sampleCSV))
	if rec.Code != http.StatusOK {
		t.Fatalf("Import failed: %d", rec.Code)
	}

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "blank lines", content: "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, uploadRequest(t, "books.csv", tt.content))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			if books.Len() != 2 {
				t.Errorf("Expected 2 books, got %d", books.Len())
			}
		})
	}
}

func TestImportUnsupportedFormat(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, uploadRequest(t, "books.xlsx", "binary"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestExport(t *testing.T) {
	h, _ := newTestHandler(t)
	routes := h.Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, uploadRequest(t, "books.csv", sampleCSV))
	if rec.Code != http.StatusOK {
		t.Fatalf("Import failed: %d", rec.Code)
	}

	tests := []struct {
		format      string
		status      int
		contentType string
	}{
		{format: "", status: http.StatusOK, contentType: "text/csv; charset=utf-8"},
		{format: "parquet", status: http.StatusOK, contentType: "application/vnd.apache.parquet"},
		{format: "xlsx", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?format="+tt.format, nil))
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, rec.Code)
			}
			if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, rec.Header().Get("Content-Type"))
			}
		})
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export", nil))
	if !strings.Contains(rec.Body.String(), "12ΑΒγδ345") {
		t.Errorf("Expected export to contain the item code")
	}
}

func TestSettings(t *testing.T) {
	h, _ := newTestHandler(t)
	routes := h.Routes()

	do := func(method, body string) (int, settingResponse) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/settings/terminal-location", strings.NewReader(body))
		routes.ServeHTTP(rec, req)
		var response settingResponse
		json.Unmarshal(rec.Body.Bytes(), &response)
		return rec.Code, response
	}

	if code, resp := do(http.MethodGet, ""); code != http.StatusOK || resp.Value != "library" {
		t.Errorf("Expected default library, got %d %q", code, resp.Value)
	}
	if code, resp := do(http.MethodPut, `{"value":"expo"}`); code != http.StatusOK || resp.Value != "expo" {
		t.Errorf("Expected expo, got %d %q", code, resp.Value)
	}
	if code, _ := do(http.MethodPut, `{"value":"attic"}`); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid location, got %d", code)
	}
	if code, resp := do(http.MethodDelete, ""); code != http.StatusOK || resp.Value != "library" {
		t.Errorf("Expected library after reset, got %d %q", code, resp.Value)
	}
}

func TestAutodetectSetting(t *testing.T) {
	h, _ := newTestHandler(t)
	routes := h.Routes()

	readingRoom := "ΚΩΔΙΚΟΣ,ΤΙΤΛΟΣ,ΑΝΑΓΝΩΣΤΗΡΙΟ\n" +
		"1Αα1,Α,Α\n" +
		"2Ββ2,Β,Α\n"

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, uploadRequest(t, "books.csv", readingRoom))
	if rec.Code != http.StatusOK {
		t.Fatalf("Import failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/terminal-location", strings.NewReader(`{"value":"expo"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Set failed: %d", rec.Code)
	}

	tests := []struct {
		name   string
		key    string
		status int
		value  string
	}{
		{name: "terminal location", key: "terminal-location", status: http.StatusOK, value: "reading-room"},
		{name: "unknown key", key: "theme", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings/"+tt.key+"/autodetect", nil))
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.value == "" {
				return
			}
			var response settingResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if response.Value != tt.value {
				t.Errorf("Expected %s, got %s", tt.value, response.Value)
			}
		})
	}
}

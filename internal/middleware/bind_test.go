package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lapor/internal/domain"
	"lapor/internal/middleware"
)

func bindServe(body string) (*httptest.ResponseRecorder, *domain.CreateSuggestionRequest) {
	var got *domain.CreateSuggestionRequest
	h := middleware.BindJSON[domain.CreateSuggestionRequest]()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = middleware.Body[domain.CreateSuggestionRequest](r.Context())
			w.WriteHeader(http.StatusCreated)
		}),
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec, got
}

func TestBindJSON_OK(t *testing.T) {
	rec, got := bindServe(`{"category":"policy","title":"Taman kota","description":"Tambah taman di setiap RW"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got == nil || got.Category != domain.SuggestionPolicy {
		t.Fatalf("body not bound: %+v", got)
	}
}

func TestBindJSON_InvalidJSON(t *testing.T) {
	rec, got := bindServe(`{`)
	if rec.Code != http.StatusBadRequest || got != nil {
		t.Fatalf("expected 400 without calling next, got %d", rec.Code)
	}
}

func TestBindJSON_ValidationFields(t *testing.T) {
	rec, _ := bindServe(`{"category":"weather","title":"x","description":"short"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "validation_failed" {
		t.Fatalf("unexpected code %q", body.Code)
	}
	if body.Fields["CreateSuggestionRequest.Category"] != "suggestion_category" {
		t.Fatalf("missing category failure: %v", body.Fields)
	}
	if body.Fields["CreateSuggestionRequest.Description"] != "min" {
		t.Fatalf("missing description failure: %v", body.Fields)
	}
}

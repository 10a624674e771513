package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Dune"}`))
	if err := DecodeJSON(r, &v); err != nil || v.Title != "Dune" {
		t.Fatalf("Expected title Dune, got %q (%v)", v.Title, err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	if err := DecodeJSON(r, &v); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("Expected empty body error, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	if err := DecodeJSON(r, &v); err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("Expected invalid JSON error, got %v", err)
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	var v map[string]string
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 64)+`"}`))
	r.ContentLength = -1
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	if err := DecodeJSON(r, &v); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("Expected ErrBodyTooLarge, got %v", err)
	}
}

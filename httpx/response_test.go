package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "created", map[string]int{"id": 1})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.Message != "created" || body.Data["id"] != 1 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestJSONErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", map[string]string{"email": "required"})

	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Success || body.Error != "validation_failed" || body.Details == nil {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
		empty   bool
	}{
		{"ok", `{"name":"x"}`, false, false},
		{"unknown field", `{"name":"x","extra":1}`, true, false},
		{"empty", ``, true, true},
		{"two objects", `{"name":"x"}{"name":"y"}`, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(httptest.NewRecorder(), r, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.empty && !errors.Is(err, ErrEmptyBody) {
				t.Fatalf("expected ErrEmptyBody, got %v", err)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&skills=go,sql&skills=react&remote=true&bad=x&company=7", nil)
	if QueryInt(r, "page", 1) != 3 {
		t.Fatalf("expected page 3")
	}
	if QueryInt(r, "bad", 1) != 1 {
		t.Fatalf("expected default for invalid int")
	}
	if got := strings.Join(QueryList(r, "skills"), ","); got != "go,sql,react" {
		t.Fatalf("unexpected list %q", got)
	}
	if b := QueryBool(r, "remote"); b == nil || !*b {
		t.Fatalf("expected remote=true")
	}
	if QueryBool(r, "missing") != nil {
		t.Fatalf("expected nil for missing bool")
	}
	if QueryFloat(r, "page", 0) != 3 || QueryFloat(r, "bad", 0.5) != 0.5 {
		t.Fatalf("unexpected float parsing")
	}
	if QueryUint(r, "company") != 7 {
		t.Fatalf("expected company 7")
	}
}

func TestPathUint(t *testing.T) {
	mux := http.NewServeMux()
	var got uint
	var gotErr error
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathUint(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/jobs/42", nil))
	if gotErr != nil || got != 42 {
		t.Fatalf("expected 42, got %d err=%v", got, gotErr)
	}
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/jobs/abc", nil))
	if gotErr == nil {
		t.Fatalf("expected error for non numeric id")
	}
}

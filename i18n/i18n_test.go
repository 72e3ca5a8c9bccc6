package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"en-US,en;q=0.9", "en"},
		{"EN-gb", "en"},
		{"fr-FR,fr;q=0.8", "fr"},
		{"de-CH", "de"},
		{"es-MX,en;q=0.5", "es"},
		{"ja-JP", "en"},
		{"", "en"},
		{"not a header;;", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := DetectLanguage(tt.header); got != tt.want {
				t.Fatalf("DetectLanguage(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("fr", "required") != "Requis" {
		t.Fatalf("expected Requis")
	}
	if T("fr-CA", "required") != "Requis" {
		t.Fatalf("expected region to map to base language")
	}
	// unknown code -> fallback to code
	if T("de", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> English
	if T("it", "required") != "Required" {
		t.Fatalf("expected en fallback for it")
	}
}

func TestCatalogsComplete(t *testing.T) {
	for _, lang := range Supported[1:] {
		for code := range messages[Default] {
			if _, ok := messages[lang][code]; !ok {
				t.Errorf("%s: missing %q", lang, code)
			}
		}
	}
}

func TestLangContext(t *testing.T) {
	if LangFromContext(context.Background()) != Default {
		t.Fatalf("expected default language")
	}
	if LangFromContext(WithLang(context.Background(), "es")) != "es" {
		t.Fatalf("expected es from context")
	}
}

package validation

import (
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jobzee/jobzee/i18n"
)

// Violations maps a field name to a message code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add keeps the first violation recorded for a field.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Localize returns a copy with codes replaced by messages in lang.
func (v Violations) Localize(lang string) map[string]string {
	out := make(map[string]string, len(v))
	for field, code := range v {
		out[field] = i18n.T(lang, code)
	}
	return out
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

// Email accepts a bare address only, no display name.
func Email(field, value string, v Violations) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, "required")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@"):], ".") {
		v.Add(field, "invalid_email")
	}
}

func MinLength(field, value string, n int, v Violations) {
	if utf8.RuneCountInString(value) < n {
		v.Add(field, "too_short")
	}
}

// OneOf ignores empty values; pair it with Required when the field is mandatory.
func OneOf(field, value string, allowed []string, v Violations) {
	if value != "" && !slices.Contains(allowed, value) {
		v.Add(field, "invalid_choice")
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

// Package repository holds the GORM-backed data access layer.
package repository

import (
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is a 1-based pagination request.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize applies defaults and caps the page size.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

func (p Page) Limit() int {
	return p.Normalize().PageSize
}

// Paginated wraps a page of results with its total count.
type Paginated[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func newPaginated[T any](items []T, total int64, p Page) Paginated[T] {
	n := p.Normalize()
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{Items: items, Total: total, Page: n.Page, PageSize: n.PageSize}
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// likePattern builds a case-insensitive LIKE pattern, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// jsonElementPattern matches one element inside a JSON-serialized string
// array. The element is encoded the way the json serializer stored it, so
// HTML-escaped runes such as & line up.
func jsonElementPattern(s string) string {
	encoded, _ := json.Marshal(strings.ToLower(strings.TrimSpace(s)))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(string(encoded)) + "%"
}

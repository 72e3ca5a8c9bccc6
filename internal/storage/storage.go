// Package storage keeps uploaded files (resumes) in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("object not found")

// Object is a stored blob and its content type.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	// URL is where clients can download key from.
	URL(key string) string
	// Key reverses URL. ok is false for URLs this store did not issue.
	Key(rawURL string) (key string, ok bool)
}

// MemoryStore keeps objects in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
}

type memObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject), baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *MemoryStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = memObject{data: data, contentType: contentType}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Object, error) {
	s.mu.RLock()
	o, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &Object{
		Body:        io.NopCloser(bytes.NewReader(o.data)),
		ContentType: o.contentType,
		Size:        int64(len(o.data)),
	}, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) URL(key string) string {
	return s.baseURL + "/" + escapeKey(key)
}

func (s *MemoryStore) Key(rawURL string) (string, bool) {
	return keyFromURL(s.baseURL, rawURL)
}

// Keys lists stored keys in no particular order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func keyFromURL(baseURL, rawURL string) (string, bool) {
	escaped, found := strings.CutPrefix(rawURL, baseURL+"/")
	if !found || escaped == "" {
		return "", false
	}
	key, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}
	return key, true
}

// Package catalog supplies the enumerated-option catalogs consumed by the
// section validator. The validator only sees the OptionCatalog interface;
// implementations here cover a static seed, PostgreSQL, and a Redis
// read-through cache.
package catalog

import (
	"context"
	"sync"

	"personnel/pkg/platform/sentinel"
)

// Static serves catalogs from an immutable in-memory table. It is the seed
// used in development and as the fallback when no database is configured.
type Static struct {
	mu         sync.RWMutex
	categories map[string][]string
}

// defaultCategories mirror the catalogs the HR forms reference out of the box.
var defaultCategories = map[string][]string{
	"gender":            {"남", "여"},
	"blood_type":        {"A", "B", "O", "AB"},
	"bank":              {"국민은행", "신한은행", "우리은행", "하나은행", "기업은행", "농협은행", "카카오뱅크", "토스뱅크"},
	"contract_type":     {"정규직", "계약직", "파견직", "인턴"},
	"employment_status": {"재직", "휴직", "퇴직"},
	"education_level":   {"고졸", "전문학사", "학사", "석사", "박사"},
	"family_relation":   {"배우자", "자녀", "부", "모", "형제", "자매"},
	"military_service":  {"군필", "미필", "면제", "복무중", "해당없음"},
	"department":        {"경영지원팀", "개발팀", "인사팀", "재무팀", "영업팀"},
	"position":          {"사원", "주임", "대리", "과장", "차장", "부장", "이사"},
}

// NewStatic returns a catalog seeded with the default categories.
func NewStatic() *Static {
	return NewStaticWith(defaultCategories)
}

// NewStaticWith returns a catalog serving the given categories. The map is
// copied so callers cannot mutate it afterwards.
func NewStaticWith(categories map[string][]string) *Static {
	copied := make(map[string][]string, len(categories))
	for name, values := range categories {
		copied[name] = append([]string(nil), values...)
	}
	return &Static{categories: copied}
}

// Values returns the ordered values for a category, or sentinel.ErrNotFound.
func (s *Static) Values(_ context.Context, category string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.categories[category]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]string(nil), values...), nil
}

// Has reports whether a category exists.
func (s *Static) Has(_ context.Context, category string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.categories[category]
	return ok, nil
}

// Register adds or replaces a category. Intended for wiring and tests, not
// for concurrent runtime mutation of a live catalog.
func (s *Static) Register(category string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category] = append([]string(nil), values...)
}

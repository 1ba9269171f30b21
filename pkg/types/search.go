// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the normalized data structures shared by the
// provider backends, the orchestrator, and the CLI/HTTP surfaces.
//
// Every backend call and every orchestrator call returns a Result (or a
// CombinedResult for multi-source searches). Results are built through
// Succeeded, Failed and NoMatches so that a successful Result always carries
// data and no message, and a failed Result always carries a message.
package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Defaults applied to SearchOptions.
const (
	DefaultPageSize = 5
	DefaultCategory = "general"
)

// SearchOptions is the option bag accepted by every search call. Unknown
// JSON fields are ignored when decoding.
type SearchOptions struct {
	// PageSize is the number of results requested from the provider (default 5).
	PageSize int `json:"pageSize,omitempty" yaml:"page_size,omitempty"`

	// GetHeadlines switches the news source from keyword search to top headlines.
	GetHeadlines bool `json:"getHeadlines,omitempty" yaml:"get_headlines,omitempty"`

	// Category selects the headlines category (news only, default "general").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// ResolvedPageSize returns PageSize, or DefaultPageSize when it is unset.
func (o SearchOptions) ResolvedPageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

// ResolvedCategory returns Category, or DefaultCategory when it is blank.
func (o SearchOptions) ResolvedCategory() string {
	if c := strings.TrimSpace(o.Category); c != "" {
		return c
	}
	return DefaultCategory
}

// Payload is the provider-specific data carried by a Result. The set of
// implementations is closed: EncyclopediaPayload, PapersPayload, NewsPayload
// and EmptyList.
type Payload interface {
	payload()
}

// EmptyList is the list-shaped data returned with the encyclopedia's
// "No results found" failure. It encodes as an empty JSON array.
type EmptyList []struct{}

func (EmptyList) payload() {}

// MarshalJSON always encodes an empty array, including for a nil EmptyList.
func (EmptyList) MarshalJSON() ([]byte, error) { return []byte("[]"), nil }

// Result is the outcome of one search against one source.
type Result struct {
	Success bool    `json:"success" yaml:"success"`
	Source  string  `json:"source" yaml:"source"`
	Query   string  `json:"query" yaml:"query"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"`
	Data    Payload `json:"data" yaml:"data"`
}

const defaultFailureMessage = "Failed to process search request"

// Succeeded builds a successful Result. A nil payload is a programming error
// and yields a failed Result instead, so the invariant cannot be broken.
func Succeeded(source, query string, data Payload) Result {
	if isNilPayload(data) {
		return Failed(source, query, "provider returned no data")
	}
	return Result{Success: true, Source: source, Query: query, Data: data}
}

// Failed builds a failed Result with no data. An empty message is replaced
// by a generic one so failed Results always explain themselves.
func Failed(source, query, message string) Result {
	if strings.TrimSpace(message) == "" {
		message = defaultFailureMessage
	}
	return Result{Source: source, Query: query, Message: message}
}

// NoMatches builds the failed Result used when a provider found nothing. Its
// data is an empty list rather than null.
func NoMatches(source, query string) Result {
	r := Failed(source, query, "No results found")
	r.Data = EmptyList{}
	return r
}

func isNilPayload(p Payload) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *EncyclopediaPayload:
		return v == nil
	case *PapersPayload:
		return v == nil
	case *NewsPayload:
		return v == nil
	}
	return false
}

// CombinedResult aggregates one Result per requested source.
type CombinedResult struct {
	// Success is true only when every contained Result succeeded.
	Success bool     `json:"success" yaml:"success"`
	Query   string   `json:"query" yaml:"query"`
	Sources []string `json:"sources" yaml:"sources"`

	// Message explains a validation failure; Data is nil in that case.
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
	Data    *SourceResults `json:"data" yaml:"data"`
}

// SourceResults maps source names to Results and remembers insertion order.
type SourceResults struct {
	keys    []string
	results map[string]Result
}

// NewSourceResults returns an empty ordered map with room for n sources.
func NewSourceResults(n int) *SourceResults {
	return &SourceResults{
		keys:    make([]string, 0, n),
		results: make(map[string]Result, n),
	}
}

// Set stores r under source. A new key is appended to the order; an
// existing key keeps its position.
func (s *SourceResults) Set(source string, r Result) {
	if _, ok := s.results[source]; !ok {
		s.keys = append(s.keys, source)
	}
	s.results[source] = r
}

// Get returns the Result stored under source.
func (s *SourceResults) Get(source string) (Result, bool) {
	if s == nil {
		return Result{}, false
	}
	r, ok := s.results[source]
	return r, ok
}

// Keys returns the source names in insertion order.
func (s *SourceResults) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of stored Results.
func (s *SourceResults) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// MarshalJSON encodes the map as a JSON object whose keys follow insertion order.
func (s *SourceResults) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.results[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping whose keys follow
// insertion order.
func (s *SourceResults) MarshalYAML() (any, error) {
	if s == nil {
		return nil, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range s.keys {
		val := &yaml.Node{}
		if err := val.Encode(s.results[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			val,
		)
	}
	return node, nil
}

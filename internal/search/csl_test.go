// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/knowmap/pkg/types"
)

func TestToCSLItemPaper(t *testing.T) {
	p := types.Paper{
		Title:     "Attention Is All You Need",
		Authors:   []string{"Ashish Vaswani", "Noam Shazeer"},
		Summary:   "The dominant sequence transduction models...",
		Published: "2017-06-12T17:57:34Z",
		URL:       "http://arxiv.org/abs/1706.03762v7",
		PDFLink:   "http://arxiv.org/pdf/1706.03762v7.pdf",
	}

	item := toCSLItem(p, 0)

	if item.ID != "1706.03762" {
		t.Errorf("ID = %q, want %q", item.ID, "1706.03762")
	}
	if item.Type != "article" {
		t.Errorf("Type = %q, want %q", item.Type, "article")
	}
	if item.Abstract != p.Summary {
		t.Errorf("Abstract = %q, want summary", item.Abstract)
	}
	if len(item.Author) != 2 || item.Author[0].Family != "Vaswani" || item.Author[0].Given != "Ashish" {
		t.Errorf("Author = %+v, want Vaswani/Ashish first", item.Author)
	}
	if item.Issued == nil {
		t.Fatal("Issued should be set")
	}
	if got := item.Issued.DateParts[0]; got[0] != 2017 || got[1] != 6 || got[2] != 12 {
		t.Errorf("Issued = %v, want [2017 6 12]", got)
	}
}

func TestToCSLItemWithoutArxivID(t *testing.T) {
	item := toCSLItem(types.Paper{Title: "Untitled", URL: "https://example.org/x", Published: "not a date"}, 2)

	if item.ID != "paper-3" {
		t.Errorf("ID = %q, want %q", item.ID, "paper-3")
	}
	if item.Issued != nil {
		t.Errorf("Issued should be nil for an unparseable date, got %+v", item.Issued)
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Alice Smith", CSLName{Given: "Alice", Family: "Smith"}},
		{"Jean Paul Sartre", CSLName{Given: "Jean Paul", Family: "Sartre"}},
		{"Plato", CSLName{Literal: "Plato"}},
		{"  ", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.in); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"https://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v2", "hep-th/9901001"},
		{"https://arxiv.org/pdf/2301.07041v1.pdf", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSL(t *testing.T) {
	papers := []types.Paper{
		{Title: "First", Authors: []string{"Ada Lovelace"}, URL: "http://arxiv.org/abs/1111.0001v1", Published: "2011-11-01T00:00:00Z"},
		{Title: "Second", URL: "http://arxiv.org/abs/2222.0002v3"},
	}

	var buf bytes.Buffer
	if err := WriteCSL(&buf, papers); err != nil {
		t.Fatalf("WriteCSL: %v", err)
	}
	s := buf.String()

	for _, want := range []string{"1111.0001", "2222.0002", "family: Lovelace", "type: article", "archive: arXiv"} {
		if !strings.Contains(s, want) {
			t.Errorf("CSL output missing %q:\n%s", want, s)
		}
	}
	if strings.Index(s, "First") > strings.Index(s, "Second") {
		t.Error("CSL output should keep paper order")
	}
}

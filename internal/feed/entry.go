// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"io"
	"strings"
)

// Entry holds the fields of one Atom <entry>. Scalar fields and author
// names are whitespace-collapsed and trimmed.
type Entry struct {
	Title     string
	Summary   string
	Published string
	Updated   string

	// Authors lists the non-empty <author><name> values in document order.
	Authors []string

	// Links lists every <link href> value in document order.
	Links []string
}

// ParseEntries returns every <entry> of the feed in document order,
// including incomplete ones. Use Complete to drop entries that cannot be
// presented.
func ParseEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	err := Elements(NewTokenizer(r), "entry", func(el *Element) {
		entries = append(entries, entryFromElement(el))
	})
	return entries, err
}

// Complete returns the entries with a non-empty title and summary, keeping
// their order.
func Complete(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsComplete() {
			out = append(out, e)
		}
	}
	return out
}

// IsComplete reports whether the entry has both a title and a summary.
func (e Entry) IsComplete() bool {
	return e.Title != "" && e.Summary != ""
}

// PDFLink returns the first link containing ".pdf", else the first link,
// else "".
func (e Entry) PDFLink() string {
	for _, l := range e.Links {
		if strings.Contains(l, ".pdf") {
			return l
		}
	}
	if len(e.Links) > 0 {
		return e.Links[0]
	}
	return ""
}

// URL returns the first link not containing ".pdf", else PDFLink.
func (e Entry) URL() string {
	for _, l := range e.Links {
		if !strings.Contains(l, ".pdf") {
			return l
		}
	}
	return e.PDFLink()
}

func entryFromElement(el *Element) Entry {
	e := Entry{
		Title:     childText(el, "title"),
		Summary:   childText(el, "summary"),
		Published: childText(el, "published"),
		Updated:   childText(el, "updated"),
	}

	for _, author := range el.ChildElements("author") {
		if name := childText(author, "name"); name != "" {
			e.Authors = append(e.Authors, name)
		}
	}

	// Empty hrefs are kept; only links without the attribute are skipped.
	for _, link := range el.Descendants("link") {
		if href, ok := link.LookupAttr("href"); ok {
			e.Links = append(e.Links, href)
		}
	}
	return e
}

func childText(el *Element, local string) string {
	c := el.Child(local)
	if c == nil {
		return ""
	}
	return collapseSpace(c.Text())
}

// collapseSpace replaces runs of whitespace with single spaces and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed scans Atom documents without a general-purpose XML parser.
//
// A Tokenizer turns the byte stream into tagged tokens (start, end,
// self-closing, text). Elements assembles tokens into small element trees,
// but only for the elements a caller asks for, so the rest of the document is
// streamed past without being retained. ParseEntries builds Entry records
// from the <entry> elements of a feed, and Complete drops the entries that
// lack a title or summary.
//
// The scanner is lenient by construction: unterminated markup ends the
// stream, stray '<' characters are kept as text, and unmatched end tags are
// ignored. Only read errors from the underlying reader are reported.
package feed

import (
	"bufio"
	"errors"
	"html"
	"io"
	"strings"
)

// TokenKind tags the variant held by a Token.
type TokenKind int

const (
	// StartTag is an opening tag such as <entry>.
	StartTag TokenKind = iota + 1
	// EndTag is a closing tag such as </entry>.
	EndTag
	// SelfClosingTag is an empty-element tag such as <link href="..."/>.
	SelfClosingTag
	// Text is character data, with entities and CDATA already decoded.
	Text
)

func (k TokenKind) String() string {
	switch k {
	case StartTag:
		return "start"
	case EndTag:
		return "end"
	case SelfClosingTag:
		return "self-closing"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is a single tag attribute with its value decoded.
type Attr struct {
	Name  string
	Value string
}

// Token is one lexical unit of the document. Name and Attrs are set for
// tags; Data is set for text.
type Token struct {
	Kind  TokenKind
	Name  string
	Attrs []Attr
	Data  string
}

// Attr returns the value of the named attribute.
func (t Token) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// LocalName strips a namespace prefix: "atom:entry" becomes "entry".
func LocalName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Tokenizer reads tokens from a stream one at a time.
type Tokenizer struct {
	r *bufio.Reader
}

// NewTokenizer returns a Tokenizer reading from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{r: bufio.NewReader(r)}
}

// Next returns the next token. It returns io.EOF at the end of the input,
// including when the input ends inside an unterminated tag, comment or
// CDATA section. Comments, processing instructions and declarations are
// skipped.
func (z *Tokenizer) Next() (Token, error) {
	for {
		b, err := z.r.ReadByte()
		if err != nil {
			return Token{}, err
		}
		if b != '<' {
			if err := z.r.UnreadByte(); err != nil {
				return Token{}, err
			}
			return z.readText()
		}

		tok, ok, err := z.readMarkup()
		if err != nil {
			return Token{}, err
		}
		if ok {
			return tok, nil
		}
	}
}

// readText consumes character data up to, but not including, the next '<'.
func (z *Tokenizer) readText() (Token, error) {
	s, err := z.r.ReadString('<')
	if err == nil {
		s = s[:len(s)-1]
		if uerr := z.r.UnreadByte(); uerr != nil {
			return Token{}, uerr
		}
	} else if !errors.Is(err, io.EOF) {
		return Token{}, err
	}
	return Token{Kind: Text, Data: html.UnescapeString(s)}, nil
}

// readMarkup consumes whatever follows a '<'. ok is false for constructs
// that produce no token (comments, declarations, processing instructions).
func (z *Tokenizer) readMarkup() (tok Token, ok bool, err error) {
	next, err := z.r.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Token{Kind: Text, Data: "<"}, true, nil
		}
		return Token{}, false, err
	}

	switch c := next[0]; {
	case c == '?':
		_, err := z.readUntil("?>")
		return Token{}, false, err

	case c == '!':
		if z.hasPrefix("!--") {
			z.r.Discard(3)
			_, err := z.readUntil("-->")
			return Token{}, false, err
		}
		if z.hasPrefix("![CDATA[") {
			z.r.Discard(8)
			data, err := z.readUntil("]]>")
			if err != nil {
				return Token{}, false, err
			}
			return Token{Kind: Text, Data: data}, true, nil
		}
		_, err := z.readUntil(">")
		return Token{}, false, err

	case c == '/':
		z.r.Discard(1)
		body, err := z.readUntil(">")
		if err != nil {
			return Token{}, false, err
		}
		return Token{Kind: EndTag, Name: strings.TrimSpace(body)}, true, nil

	case isNameStart(c):
		body, err := z.readTagBody()
		if err != nil {
			return Token{}, false, err
		}
		return parseTag(body), true, nil

	default:
		// A bare '<' in character data.
		return Token{Kind: Text, Data: "<"}, true, nil
	}
}

func (z *Tokenizer) hasPrefix(p string) bool {
	b, err := z.r.Peek(len(p))
	return err == nil && string(b) == p
}

// readUntil consumes input through delim and returns what preceded it.
func (z *Tokenizer) readUntil(delim string) (string, error) {
	last := delim[len(delim)-1]
	var sb strings.Builder
	for {
		chunk, err := z.r.ReadString(last)
		sb.WriteString(chunk)
		if err != nil {
			return "", err
		}
		if s := sb.String(); strings.HasSuffix(s, delim) {
			return s[:len(s)-len(delim)], nil
		}
	}
}

// readTagBody consumes a tag through its closing '>', ignoring any '>'
// inside quoted attribute values.
func (z *Tokenizer) readTagBody() (string, error) {
	var buf []byte
	var quote byte
	for {
		b, err := z.r.ReadByte()
		if err != nil {
			return "", err
		}
		switch {
		case quote != 0:
			if b == quote {
				quote = 0
			}
		case b == '"' || b == '\'':
			quote = b
		case b == '>':
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// parseTag splits a tag body such as `link href="x" rel="alternate"/` into
// its name and attributes.
func parseTag(body string) Token {
	tok := Token{Kind: StartTag}
	trimmed := strings.TrimRight(body, " \t\r\n")
	if strings.HasSuffix(trimmed, "/") {
		tok.Kind = SelfClosingTag
		trimmed = trimmed[:len(trimmed)-1]
	}

	end := strings.IndexAny(trimmed, " \t\r\n")
	if end < 0 {
		tok.Name = trimmed
		return tok
	}
	tok.Name = trimmed[:end]
	tok.Attrs = parseAttrs(trimmed[end:])
	return tok
}

func parseAttrs(s string) []Attr {
	var attrs []Attr
	i := 0
	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return attrs
		}

		start := i
		for i < len(s) && s[i] != '=' && !isSpace(s[i]) {
			i++
		}
		name := s[start:i]

		i = skipSpace(s, i)
		if i >= len(s) || s[i] != '=' {
			if name != "" {
				attrs = append(attrs, Attr{Name: name})
			}
			continue
		}
		i = skipSpace(s, i+1)

		var value string
		if i < len(s) && (s[i] == '"' || s[i] == '\'') {
			q := s[i]
			i++
			start = i
			for i < len(s) && s[i] != q {
				i++
			}
			value = s[start:i]
			if i < len(s) {
				i++
			}
		} else {
			start = i
			for i < len(s) && !isSpace(s[i]) {
				i++
			}
			value = s[start:i]
		}
		if name != "" {
			attrs = append(attrs, Attr{Name: name, Value: html.UnescapeString(value)})
		}
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isNameStart(b byte) bool {
	return b == '_' || b == ':' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

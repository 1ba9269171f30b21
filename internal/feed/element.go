// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"errors"
	"io"
	"strings"
)

// Node is a child of an Element: either *Element or CharData.
type Node interface {
	node()
}

// CharData is a run of decoded text inside an element.
type CharData string

func (CharData) node() {}

// Element is an element with its attributes and children in document order.
type Element struct {
	Name  string
	Attrs []Attr
	Nodes []Node
}

func (*Element) node() {}

// Local returns the element name without its namespace prefix.
func (e *Element) Local() string { return LocalName(e.Name) }

// Attr returns the value of the named attribute, or "" if it is absent.
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr returns the value of the named attribute and whether it is
// present, so an empty value can be told apart from a missing attribute.
func (e *Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the concatenated character data of e and its descendants.
func (e *Element) Text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, n := range e.Nodes {
		switch v := n.(type) {
		case CharData:
			sb.WriteString(string(v))
		case *Element:
			v.writeText(sb)
		}
	}
}

// Child returns the first direct child with the given local name, or nil.
func (e *Element) Child(local string) *Element {
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok && el.Local() == local {
			return el
		}
	}
	return nil
}

// ChildElements returns every direct child with the given local name.
func (e *Element) ChildElements(local string) []*Element {
	var out []*Element
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok && el.Local() == local {
			out = append(out, el)
		}
	}
	return out
}

// Descendants returns every element below e with the given local name, in
// document order.
func (e *Element) Descendants(local string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(parent *Element) {
		for _, n := range parent.Nodes {
			el, ok := n.(*Element)
			if !ok {
				continue
			}
			if el.Local() == local {
				out = append(out, el)
			}
			walk(el)
		}
	}
	walk(e)
	return out
}

// Elements streams tokens from z and calls fn with every element whose local
// name is local, in document order, once its end tag has been read. Tokens
// outside such elements are discarded. An element still open when the input
// ends is dropped. Unclosed children are closed implicitly by their parent's
// end tag; end tags that match no open element are ignored.
func Elements(z *Tokenizer, local string, fn func(*Element)) error {
	var stack []*Element
	for {
		tok, err := z.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if len(stack) == 0 {
			switch {
			case tok.Kind == StartTag && LocalName(tok.Name) == local:
				stack = append(stack, &Element{Name: tok.Name, Attrs: tok.Attrs})
			case tok.Kind == SelfClosingTag && LocalName(tok.Name) == local:
				fn(&Element{Name: tok.Name, Attrs: tok.Attrs})
			}
			continue
		}

		top := stack[len(stack)-1]
		switch tok.Kind {
		case StartTag:
			el := &Element{Name: tok.Name, Attrs: tok.Attrs}
			top.Nodes = append(top.Nodes, el)
			stack = append(stack, el)
		case SelfClosingTag:
			top.Nodes = append(top.Nodes, &Element{Name: tok.Name, Attrs: tok.Attrs})
		case Text:
			top.Nodes = append(top.Nodes, CharData(tok.Data))
		case EndTag:
			i := openIndex(stack, tok.Name)
			if i < 0 {
				continue
			}
			if i == 0 {
				fn(stack[0])
			}
			stack = stack[:i]
		}
	}
}

// openIndex finds the innermost open element named name.
func openIndex(stack []*Element, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Name == name {
			return i
		}
	}
	return -1
}

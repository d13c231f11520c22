// CLAUDE:SUMMARY CSS-subset selector engine over x/net/html parse trees.
// Package extract provides CSS-subset selection and text extraction over
// parsed HTML documents.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Select returns all nodes matching a CSS selector, in document order.
// Supports a subset of CSS selectors:
//   - tag: "tr", "div"
//   - .class: ".comment"
//   - #id: "#main-content"
//   - tag.class: "div.comment"
//   - tag.class1.class2: "tr.athing.comtr" (node must carry all classes)
//   - tag#id: "div#main"
//   - tag[attr]: "span[title]"
//   - tag[attr=val]: "div[role=main]"
//   - combinations separated by space (descendant combinator)
func Select(root *html.Node, selector string) []*html.Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}

	// Start with all nodes matching the first part.
	matches := matchSimple(root, parts[0])

	// For descendant combinators, filter through subsequent parts.
	for i := 1; i < len(parts); i++ {
		var nextMatches []*html.Node
		for _, parent := range matches {
			nextMatches = append(nextMatches, matchSimple(parent, parts[i])...)
		}
		matches = nextMatches
	}

	return matches
}

// First returns the first node matching selector, or nil when nothing matches.
func First(root *html.Node, selector string) *html.Node {
	matches := Select(root, selector)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// matchSimple finds all nodes matching a single CSS selector part.
func matchSimple(root *html.Node, sel string) []*html.Node {
	m := parseSimpleSelector(sel)
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if matchesSelector(n, m) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

type simpleSelector struct {
	tag     string
	id      string
	classes []string
	attrKey string
	attrVal string
}

// parseSimpleSelector parses "tag.class", "#id", "tag[attr=val]", etc.
func parseSimpleSelector(sel string) simpleSelector {
	var s simpleSelector

	// Handle attribute selector: tag[attr] or tag[attr=val]
	if idx := strings.IndexByte(sel, '['); idx >= 0 {
		attrPart := strings.TrimRight(sel[idx+1:], "]")
		sel = sel[:idx]
		if eqIdx := strings.IndexByte(attrPart, '='); eqIdx >= 0 {
			s.attrKey = attrPart[:eqIdx]
			s.attrVal = strings.Trim(attrPart[eqIdx+1:], `"'`)
		} else {
			s.attrKey = attrPart
		}
	}

	// Handle #id (may be followed by class parts)
	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		rest := sel[idx+1:]
		sel = sel[:idx]
		if dotIdx := strings.IndexByte(rest, '.'); dotIdx >= 0 {
			s.id = rest[:dotIdx]
			s.classes = append(s.classes, strings.Split(rest[dotIdx+1:], ".")...)
		} else {
			s.id = rest
		}
	}

	// Handle .class chains
	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.classes = append(s.classes, strings.Split(sel[idx+1:], ".")...)
		sel = sel[:idx]
	}

	s.tag = sel
	return s
}

// matchesSelector checks if a node matches a parsed simple selector.
func matchesSelector(n *html.Node, s simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}

	if s.tag != "" && n.Data != s.tag {
		return false
	}

	if s.id != "" {
		if Attr(n, "id") != s.id {
			return false
		}
	}

	if len(s.classes) > 0 {
		have := strings.Fields(Attr(n, "class"))
		for _, want := range s.classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}

	if s.attrKey != "" {
		val := Attr(n, s.attrKey)
		if s.attrVal != "" {
			if val != s.attrVal {
				return false
			}
		} else {
			if !HasAttr(n, s.attrKey) {
				return false
			}
		}
	}

	return true
}

// Attr returns the value of an attribute on a node.
func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// HasAttr checks if a node has a specific attribute.
func HasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

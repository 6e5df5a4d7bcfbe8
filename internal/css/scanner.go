// Package css rewrites themed color values in stylesheets.
//
// Stylesheets are scanned into rule blocks and declarations that keep their
// byte offsets into the source, so a rewrite can replace a single color token
// and leave every other byte of the file untouched.
package css

import (
	"strings"
)

// Declaration is a single "property: value" pair inside a rule block.
type Declaration struct {
	Property string // property name as written, comments stripped
	Value    string // value text as written (trimmed)

	// ValueStart and ValueEnd are byte offsets of Value in the source.
	ValueStart int
	ValueEnd   int
}

// Block is a qualified rule: a selector list followed by a declaration block.
type Block struct {
	Selector     string   // prelude with comments removed and whitespace collapsed
	Selectors    []string // individual selectors of the list, normalized
	Declarations []Declaration

	// Start is the offset of the prelude, End the offset just past the closing brace.
	Start int
	End   int
}

// Stylesheet is a scanned CSS source.
type Stylesheet struct {
	Source string
	Blocks []Block
}

// Parse scans src into rule blocks. At-rules with blocks (@media, @supports, ...)
// are descended into; at-rule statements (@import, @charset) are skipped.
// Parse never fails: malformed input yields fewer blocks.
func Parse(src string) *Stylesheet {
	s := &scanner{src: src}
	s.parseRules(0, len(src))
	return &Stylesheet{Source: src, Blocks: s.blocks}
}

// Match returns the blocks whose selector list contains selector.
// An empty selector matches every block.
func (ss *Stylesheet) Match(selector string) []Block {
	want := normalizeSelector(selector)
	var matched []Block
	for _, b := range ss.Blocks {
		if want == "" {
			matched = append(matched, b)
			continue
		}
		for _, sel := range b.Selectors {
			if sel == want {
				matched = append(matched, b)
				break
			}
		}
	}
	return matched
}

// Find returns the declarations of b for property.
// Custom properties (--name) compare case-sensitively, others do not.
func (b Block) Find(property string) []Declaration {
	custom := strings.HasPrefix(property, "--")
	var found []Declaration
	for _, d := range b.Declarations {
		if custom && d.Property == property {
			found = append(found, d)
		} else if !custom && strings.EqualFold(d.Property, property) {
			found = append(found, d)
		}
	}
	return found
}

type scanner struct {
	src    string
	blocks []Block
}

// parseRules scans rule-level content in src[start:end].
func (s *scanner) parseRules(start, end int) {
	pos := start
	for pos < end {
		pos = s.skipSpaceAndComments(pos, end)
		if pos >= end {
			return
		}

		preludeStart := pos
		stop := s.scanUntil(pos, end, "{;}")
		if stop >= end {
			return
		}

		switch s.src[stop] {
		case ';':
			pos = stop + 1
			continue
		case '}':
			// Stray closing brace
			pos = stop + 1
			continue
		}

		closing := s.matchBrace(stop, end)
		prelude := stripComments(s.src[preludeStart:stop])

		if strings.HasPrefix(strings.TrimSpace(prelude), "@") {
			s.parseRules(stop+1, closing)
		} else {
			s.blocks = append(s.blocks, Block{
				Selector:     collapseSpace(prelude),
				Selectors:    splitSelectors(prelude),
				Declarations: s.parseDeclarations(stop+1, closing),
				Start:        preludeStart,
				End:          min(closing+1, end),
			})
		}
		pos = closing + 1
	}
}

// parseDeclarations scans the body of a rule block in src[start:end].
func (s *scanner) parseDeclarations(start, end int) []Declaration {
	var decls []Declaration
	pos := start
	for pos < end {
		pos = s.skipSpaceAndComments(pos, end)
		if pos >= end {
			break
		}

		stop := s.scanUntil(pos, end, ";{")
		if stop < end && s.src[stop] == '{' {
			// Nested rule; not a declaration
			pos = s.matchBrace(stop, end) + 1
			continue
		}

		if d, ok := s.declaration(pos, stop); ok {
			decls = append(decls, d)
		}
		pos = stop + 1
	}
	return decls
}

// declaration parses "property: value" in src[start:end].
func (s *scanner) declaration(start, end int) (Declaration, bool) {
	colon := s.scanUntil(start, end, ":")
	if colon >= end {
		return Declaration{}, false
	}

	property := strings.TrimSpace(stripComments(s.src[start:colon]))
	if property == "" {
		return Declaration{}, false
	}

	vs := colon + 1
	ve := end
	for vs < ve && isSpace(s.src[vs]) {
		vs++
	}
	for ve > vs && isSpace(s.src[ve-1]) {
		ve--
	}

	return Declaration{
		Property:   property,
		Value:      s.src[vs:ve],
		ValueStart: vs,
		ValueEnd:   ve,
	}, true
}

// scanUntil returns the offset of the first byte in stops found outside
// comments, strings and parentheses, or end if there is none.
func (s *scanner) scanUntil(pos, end int, stops string) int {
	depth := 0
	for pos < end {
		c := s.src[pos]
		switch {
		case c == '/' && pos+1 < end && s.src[pos+1] == '*':
			pos = s.skipComment(pos, end)
			continue
		case c == '"' || c == '\'':
			pos = s.skipString(pos, end)
			continue
		case c == '\\':
			pos += 2
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.IndexByte(stops, c) >= 0:
			return pos
		}
		pos++
	}
	return end
}

// matchBrace returns the offset of the brace closing the one at open,
// or end if the block is unterminated.
func (s *scanner) matchBrace(open, end int) int {
	depth := 0
	pos := open
	for pos < end {
		c := s.src[pos]
		switch {
		case c == '/' && pos+1 < end && s.src[pos+1] == '*':
			pos = s.skipComment(pos, end)
			continue
		case c == '"' || c == '\'':
			pos = s.skipString(pos, end)
			continue
		case c == '\\':
			pos += 2
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return pos
			}
		}
		pos++
	}
	return end
}

func (s *scanner) skipSpaceAndComments(pos, end int) int {
	for pos < end {
		if isSpace(s.src[pos]) {
			pos++
			continue
		}
		if s.src[pos] == '/' && pos+1 < end && s.src[pos+1] == '*' {
			pos = s.skipComment(pos, end)
			continue
		}
		break
	}
	return pos
}

// skipComment returns the offset just past the comment starting at pos.
func (s *scanner) skipComment(pos, end int) int {
	idx := strings.Index(s.src[pos+2:end], "*/")
	if idx < 0 {
		return end
	}
	return pos + 2 + idx + 2
}

// skipString returns the offset just past the quoted string starting at pos.
func (s *scanner) skipString(pos, end int) int {
	quote := s.src[pos]
	pos++
	for pos < end {
		switch s.src[pos] {
		case '\\':
			pos += 2
			continue
		case quote, '\n':
			return pos + 1
		}
		pos++
	}
	return end
}

func stripComments(text string) string {
	if !strings.Contains(text, "/*") {
		return text
	}
	var sb strings.Builder
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			sb.WriteString(text)
			break
		}
		sb.WriteString(text[:start])
		sb.WriteByte(' ')
		stop := strings.Index(text[start+2:], "*/")
		if stop < 0 {
			break
		}
		text = text[start+2+stop+2:]
	}
	return sb.String()
}

// splitSelectors splits a selector list on top-level commas and normalizes each part.
func splitSelectors(prelude string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(prelude); i++ {
		switch prelude[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if sel := normalizeSelector(prelude[last:i]); sel != "" {
					parts = append(parts, sel)
				}
				last = i + 1
			}
		}
	}
	if sel := normalizeSelector(prelude[last:]); sel != "" {
		parts = append(parts, sel)
	}
	return parts
}

// normalizeSelector collapses whitespace and removes it around combinators,
// so ".a>b" and ".a > b" compare equal.
func normalizeSelector(sel string) string {
	sel = collapseSpace(sel)
	for _, comb := range []string{">", "+", "~"} {
		sel = strings.ReplaceAll(sel, " "+comb, comb)
		sel = strings.ReplaceAll(sel, comb+" ", comb)
	}
	return sel
}

func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

package domain

import (
	"strings"
	"unicode"

	"go.trai.ch/zerr"
)

// ParseDescriptor parses module-info.java source text.
// Comments and annotations are ignored; imports are not supported since
// generated and user-written descriptors use fully qualified names.
func ParseDescriptor(src string) (Descriptor, error) {
	p := &descriptorParser{tokens: tokenizeDescriptor(src)}
	return p.parse()
}

type descriptorParser struct {
	tokens []string
	pos    int
}

func (p *descriptorParser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *descriptorParser) next() string {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *descriptorParser) expect(tok string) error {
	if got := p.next(); got != tok {
		return p.fail("expected " + tok + ", got " + quoteToken(got))
	}
	return nil
}

func (p *descriptorParser) fail(reason string) error {
	return zerr.With(zerr.With(ErrInvalidDescriptor, "reason", reason), "token", p.pos)
}

func (p *descriptorParser) name() (string, error) {
	tok := p.next()
	if !isIdentifier(tok) {
		return "", p.fail("expected name, got " + quoteToken(tok))
	}
	return tok, nil
}

func (p *descriptorParser) parse() (Descriptor, error) {
	var d Descriptor
	if p.peek() == "open" {
		p.next()
		d.Open = true
	}
	if err := p.expect("module"); err != nil {
		return Descriptor{}, err
	}
	name, err := p.name()
	if err != nil {
		return Descriptor{}, err
	}
	d.Name = name
	if err := p.expect("{"); err != nil {
		return Descriptor{}, err
	}

	for p.peek() != "}" {
		if p.peek() == "" {
			return Descriptor{}, p.fail("unexpected end of input")
		}
		dir, err := p.directive()
		if err != nil {
			return Descriptor{}, err
		}
		d.Add(dir)
	}
	p.next()

	if p.peek() != "" {
		return Descriptor{}, p.fail("unexpected trailing " + quoteToken(p.peek()))
	}
	return d, nil
}

func (p *descriptorParser) directive() (Directive, error) {
	keyword := p.next()
	kind, ok := ParseDirectiveKind(keyword)
	if !ok {
		return Directive{}, p.fail("unknown directive " + quoteToken(keyword))
	}
	dir := Directive{Kind: kind}

	if kind == Requires {
		for p.peek() == "transitive" || p.peek() == "static" {
			// "requires transitive;" names a module called transitive.
			if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1] == ";" {
				break
			}
			dir.Modifiers = append(dir.Modifiers, p.next())
		}
	}

	name, err := p.name()
	if err != nil {
		return Directive{}, err
	}
	dir.Name = name

	switch {
	case (kind == Exports || kind == Opens) && p.peek() == "to":
		p.next()
		if dir.Targets, err = p.nameList(); err != nil {
			return Directive{}, err
		}
	case kind == Provides:
		if err := p.expect("with"); err != nil {
			return Directive{}, err
		}
		if dir.Targets, err = p.nameList(); err != nil {
			return Directive{}, err
		}
	}

	if err := p.expect(";"); err != nil {
		return Directive{}, err
	}
	return dir, nil
}

func (p *descriptorParser) nameList() ([]string, error) {
	var names []string
	for {
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if p.peek() != "," {
			return names, nil
		}
		p.next()
	}
}

func tokenizeDescriptor(src string) []string {
	src = stripComments(src)
	var tokens []string
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '@':
			i = skipAnnotation(runes, i+1)
		case r == ';' || r == ',' || r == '{' || r == '}':
			tokens = append(tokens, string(r))
			i++
		default:
			start := i
			for i < len(runes) && isNameRune(runes[i]) {
				i++
			}
			if i == start {
				tokens = append(tokens, string(r))
				i++
				continue
			}
			tokens = append(tokens, string(runes[start:i]))
		}
	}
	return tokens
}

func skipAnnotation(runes []rune, i int) int {
	for i < len(runes) && isNameRune(runes[i]) {
		i++
	}
	j := i
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j >= len(runes) || runes[j] != '(' {
		return i
	}
	depth := 0
	for ; j < len(runes); j++ {
		switch runes[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return j
}

func stripComments(src string) string {
	var b strings.Builder
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 4
			b.WriteByte(' ')
		default:
			b.WriteByte(src[i])
			i++
		}
	}
	return b.String()
}

func isNameRune(r rune) bool {
	return r == '.' || r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdentifier(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

func quoteToken(tok string) string {
	if tok == "" {
		return "end of input"
	}
	return "'" + tok + "'"
}

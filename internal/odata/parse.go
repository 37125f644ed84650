package odata

import (
	"strings"

	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
)

// ParseFilter reads an expression produced by Filter.Expression. Only
// startswith clauses joined by "or" are accepted and every clause must carry
// the same literal.
func ParseFilter(expr string) (Filter, error) {
	p := &parser{src: expr}
	var (
		f     Filter
		first = true
	)
	for {
		p.skipSpace()
		field, value, err := p.clause()
		if err != nil {
			return Filter{}, err
		}
		if first {
			f.Value = value
			first = false
		} else if value != f.Value {
			return Filter{}, errdef.New(errdef.CodeQuery, "mixed literals %q and %q", f.Value, value)
		}
		f.Fields = append(f.Fields, field)

		p.skipSpace()
		if p.done() {
			return f, nil
		}
		if !p.keyword("or") {
			return Filter{}, errdef.New(errdef.CodeQuery, "expected 'or' at offset %d", p.pos)
		}
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipSpace() {
	for !p.done() && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) keyword(kw string) bool {
	if !strings.HasPrefix(strings.ToLower(p.src[p.pos:]), kw) {
		return false
	}
	p.pos += len(kw)
	return true
}

func (p *parser) expect(ch byte) error {
	p.skipSpace()
	if p.done() || p.src[p.pos] != ch {
		return errdef.New(errdef.CodeQuery, "expected %q at offset %d", ch, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) clause() (string, string, error) {
	if !p.keyword("startswith") {
		return "", "", errdef.New(errdef.CodeQuery, "unsupported function at offset %d", p.pos)
	}
	if err := p.expect('('); err != nil {
		return "", "", err
	}
	p.skipSpace()
	start := p.pos
	for !p.done() && p.src[p.pos] != ',' && p.src[p.pos] != ' ' {
		p.pos++
	}
	field := p.src[start:p.pos]
	if field == "" {
		return "", "", errdef.New(errdef.CodeQuery, "missing field name at offset %d", start)
	}
	if err := p.expect(','); err != nil {
		return "", "", err
	}
	value, err := p.literal()
	if err != nil {
		return "", "", err
	}
	if err := p.expect(')'); err != nil {
		return "", "", err
	}
	return field, value, nil
}

func (p *parser) literal() (string, error) {
	if err := p.expect('\''); err != nil {
		return "", err
	}
	var b strings.Builder
	for !p.done() {
		ch := p.src[p.pos]
		p.pos++
		if ch != '\'' {
			b.WriteByte(ch)
			continue
		}
		if !p.done() && p.src[p.pos] == '\'' {
			b.WriteByte('\'')
			p.pos++
			continue
		}
		return b.String(), nil
	}
	return "", errdef.New(errdef.CodeQuery, "unterminated string literal")
}

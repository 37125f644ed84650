package odata

import (
	"net/url"
	"strings"

	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
)

const (
	DefaultBaseURL   = "https://services.odata.org/V4/Northwind/Northwind.svc"
	DefaultEntitySet = "Customers"

	paramFilter = "$filter"
	paramFormat = "$format"
	formatJSON  = "json"
)

// DefaultFields are the customer columns matched by prefix.
var DefaultFields = []string{"ContactName", "ContactTitle", "Country"}

// Filter matches records where any of Fields starts with Value.
type Filter struct {
	Fields []string
	Value  string
}

// Expression renders the filter as an OData boolean expression, for example
// startswith(ContactName,'Ma') or startswith(Country,'Ma').
func (f Filter) Expression() string {
	fields := f.fields()
	lit := Literal(f.Value)
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString(" or ")
		}
		b.WriteString("startswith(")
		b.WriteString(field)
		b.WriteString(",")
		b.WriteString(lit)
		b.WriteString(")")
	}
	return b.String()
}

func (f Filter) fields() []string {
	out := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	if len(out) == 0 {
		return DefaultFields
	}
	return out
}

// Literal quotes s as an OData string literal, doubling embedded quotes.
func Literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// BuildURL joins base and entitySet and appends the encoded filter and the
// json format option.
func BuildURL(base, entitySet string, f Filter) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBaseURL
	}
	entitySet = strings.Trim(strings.TrimSpace(entitySet), "/")
	if entitySet == "" {
		entitySet = DefaultEntitySet
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return "", errdef.Wrap(errdef.CodeQuery, err, "parse base url")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errdef.New(errdef.CodeQuery, "base url %q must be absolute", base)
	}
	parsed = parsed.JoinPath(entitySet)
	parsed.RawQuery = paramFilter + "=" + escape(f.Expression()) + "&" + paramFormat + "=" + formatJSON
	return parsed.String(), nil
}

// escape percent-encodes a query component using %20 for spaces so the value
// is read identically by servers that do and do not treat '+' as a space.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

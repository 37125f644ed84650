package odata

import (
	"net/url"
	"strings"
	"testing"
)

func TestExpressionDefaultFields(t *testing.T) {
	got := Filter{Value: "Ma"}.Expression()
	want := "startswith(ContactName,'Ma') or startswith(ContactTitle,'Ma') or startswith(Country,'Ma')"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExpressionDoublesQuotes(t *testing.T) {
	got := Filter{Fields: []string{"ContactName"}, Value: "O'Brien"}.Expression()
	if got != "startswith(ContactName,'O''Brien')" {
		t.Fatalf("unexpected expression %q", got)
	}
}

func TestBuildURL(t *testing.T) {
	raw, err := BuildURL("https://example.test/svc/", "Customers", Filter{Value: "a b&c"})
	if err != nil {
		t.Fatalf("build url: %v", err)
	}
	if !strings.HasPrefix(raw, "https://example.test/svc/Customers?$filter=") {
		t.Fatalf("unexpected prefix: %s", raw)
	}
	if !strings.HasSuffix(raw, "&$format=json") {
		t.Fatalf("expected json format suffix: %s", raw)
	}
	if strings.Contains(raw, "+") || strings.Contains(raw, "a b") {
		t.Fatalf("expected spaces to be percent encoded: %s", raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse built url: %v", err)
	}
	q := parsed.Query()
	if q.Get("$format") != "json" {
		t.Fatalf("expected $format=json, got %q", q.Get("$format"))
	}
	if !strings.Contains(q.Get("$filter"), "startswith(Country,'a b&c')") {
		t.Fatalf("filter did not round trip: %q", q.Get("$filter"))
	}
}

func TestBuildURLDefaultsAndErrors(t *testing.T) {
	raw, err := BuildURL("", "", Filter{Value: "x"})
	if err != nil {
		t.Fatalf("build url: %v", err)
	}
	if !strings.HasPrefix(raw, DefaultBaseURL+"/Customers?") {
		t.Fatalf("expected default base, got %s", raw)
	}
	if _, err := BuildURL("not a url", "Customers", Filter{}); err == nil {
		t.Fatalf("expected relative base url to fail")
	}
}

func TestParseFilterRoundTrip(t *testing.T) {
	in := Filter{Fields: []string{"ContactName", "Country"}, Value: "it's (x), or y"}
	out, err := ParseFilter(in.Expression())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Value != in.Value {
		t.Fatalf("expected value %q, got %q", in.Value, out.Value)
	}
	if strings.Join(out.Fields, ",") != "ContactName,Country" {
		t.Fatalf("unexpected fields %v", out.Fields)
	}
}

func TestParseFilterAcceptsSpacing(t *testing.T) {
	out, err := ParseFilter("startswith(ContactName, 'Ma')  or startswith( Country ,'Ma')")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(out.Fields) != 2 || out.Fields[1] != "Country" {
		t.Fatalf("unexpected fields %v", out.Fields)
	}
}

func TestParseFilterRejects(t *testing.T) {
	for _, expr := range []string{
		"",
		"endswith(Country,'x')",
		"startswith(Country,'x'",
		"startswith(Country,'x) ",
		"startswith(Country,'x') and startswith(City,'x')",
		"startswith(Country,'x') or startswith(City,'y')",
	} {
		if _, err := ParseFilter(expr); err == nil {
			t.Fatalf("expected %q to be rejected", expr)
		}
	}
}

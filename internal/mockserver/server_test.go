package mockserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/fetcher"
	"github.com/unkn0wn-root/odatacomplete/internal/httpclient"
	"github.com/unkn0wn-root/odatacomplete/internal/odata"
)

func ids(records []customer.Customer) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.CustomerID)
	}
	return out
}

func equalIDs(got []customer.Customer, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestMatchStartsWithAnyField(t *testing.T) {
	got, err := Match(Fixtures(), odata.Filter{Fields: odata.DefaultFields, Value: "Ma"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !equalIDs(got, "ALFKI", "BLONP", "BOLID", "CENTC") {
		t.Fatalf("unexpected matches %v", ids(got))
	}
}

func TestMatchIsCaseSensitive(t *testing.T) {
	got, err := Match(Fixtures(), odata.Filter{Fields: []string{"Country"}, Value: "uk"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches for lowercase country, got %v", ids(got))
	}
}

func TestMatchUnknownField(t *testing.T) {
	if _, err := Match(Fixtures(), odata.Filter{Fields: []string{"Email"}, Value: "x"}); err == nil {
		t.Fatalf("expected unknown field to fail")
	}
}

func get(t *testing.T, srv *httptest.Server, path string, query url.Values) (*http.Response, []byte) {
	t.Helper()
	u := srv.URL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("get %s: %v", u, err)
	}
	defer resp.Body.Close()
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode %s: %v", u, err)
	}
	return resp, raw
}

func TestRouterCollection(t *testing.T) {
	srv := httptest.NewServer(New(Fixtures()).Router())
	defer srv.Close()

	resp, body := get(t, srv, "/Customers", url.Values{
		"$filter": {"startswith(Country,'UK')"},
		"$top":    {"2"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var env customer.Envelope[customer.Customer]
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !equalIDs(env.Value, "AROUT", "BSBEV") {
		t.Fatalf("unexpected customers %v", ids(env.Value))
	}
}

func TestRouterErrors(t *testing.T) {
	srv := httptest.NewServer(New(Fixtures()).Router())
	defer srv.Close()

	cases := []struct {
		path  string
		query url.Values
		code  int
	}{
		{"/Orders", nil, http.StatusNotFound},
		{"/Customers", url.Values{"$filter": {"substringof('a',City)"}}, http.StatusBadRequest},
		{"/Customers", url.Values{"$filter": {"startswith(Email,'a')"}}, http.StatusBadRequest},
		{"/Customers", url.Values{"$top": {"-1"}}, http.StatusBadRequest},
		{"/Customers", url.Values{"$format": {"xml"}}, http.StatusNotAcceptable},
	}
	for _, tc := range cases {
		resp, body := get(t, srv, tc.path, tc.query)
		if resp.StatusCode != tc.code {
			t.Fatalf("%s %v: expected %d, got %d", tc.path, tc.query, tc.code, resp.StatusCode)
		}
		var e odataError
		if err := json.Unmarshal(body, &e); err != nil || e.Error.Message == "" {
			t.Fatalf("expected odata error body, got %s", body)
		}
	}
}

func TestFetcherAgainstMockService(t *testing.T) {
	srv := httptest.NewServer(New(Fixtures()).Router())
	defer srv.Close()

	f := fetcher.New(httpclient.NewClient(),
		fetcher.WithBaseURL(srv.URL),
		fetcher.WithHTTPOptions(httpclient.Options{Timeout: 5 * time.Second}),
	)

	got := f.Fetch(context.Background(), fetcher.FilterInfo{Text: "Sales", Source: "test"})
	if !equalIDs(got, "ALFKI", "AROUT", "BLAUS", "BSBEV", "CACTU") {
		t.Fatalf("expected first five of seven sales contacts, got %v", ids(got))
	}

	if got := f.Fetch(context.Background(), fetcher.FilterInfo{Text: "zzz"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}

	if got := f.Fetch(context.Background(), fetcher.FilterInfo{Text: "Bon app'"}); len(got) != 0 {
		t.Fatalf("expected quote to be escaped and match nothing in the default fields, got %v", ids(got))
	}
}

func TestFetcherFieldsOverride(t *testing.T) {
	srv := httptest.NewServer(New(Fixtures()).Router())
	defer srv.Close()

	f := fetcher.New(httpclient.NewClient(),
		fetcher.WithBaseURL(srv.URL),
		fetcher.WithFields("CompanyName"),
	)
	got := f.Fetch(context.Background(), fetcher.FilterInfo{Text: "Bon app'"})
	if !equalIDs(got, "BONAP") {
		t.Fatalf("expected quoted company to match, got %v", ids(got))
	}
}

func TestLatencyHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(New(Fixtures(), WithLatency(time.Minute)).Router())
	defer srv.Close()

	f := fetcher.New(httpclient.NewClient(), fetcher.WithBaseURL(srv.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	got := f.Fetch(ctx, fetcher.FilterInfo{Text: "A"})
	if len(got) != 0 {
		t.Fatalf("expected empty result on timeout")
	}
	if time.Since(start) > 10*time.Second {
		t.Fatalf("fetch did not observe cancellation promptly")
	}
}

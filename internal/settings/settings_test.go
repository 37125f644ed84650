package settings

import (
	"strings"
	"testing"
	"time"

	"github.com/unkn0wn-root/odatacomplete/internal/config"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
)

func TestFromEnviron(t *testing.T) {
	got := FromEnviron([]string{
		"HOME=/root",
		"ODATACOMPLETE_SET_BASE_URL=http://localhost:8089",
		"ODATACOMPLETE_SET_=ignored",
		"ODATACOMPLETE_SET_TIMEOUT=2s",
	}, EnvPrefix)
	if len(got) != 2 || got["base_url"] != "http://localhost:8089" || got["timeout"] != "2s" {
		t.Fatalf("unexpected env settings %v", got)
	}
}

func TestFromPairsAndMerge(t *testing.T) {
	flags := FromPairs([]string{"Timeout=5s", "insecure", " =x"})
	if flags["timeout"] != "5s" || flags["insecure"] != "true" || len(flags) != 2 {
		t.Fatalf("unexpected pairs %v", flags)
	}
	merged := Merge(map[string]string{"timeout": "1s", "proxy": "p"}, flags)
	if merged["timeout"] != "5s" || merged["proxy"] != "p" {
		t.Fatalf("later scopes must win, got %v", merged)
	}
}

func TestForSettingsAppliesKnownKeys(t *testing.T) {
	s := config.DefaultSettings()
	left, err := ForSettings(&s).ApplyAll(map[string]string{
		"base_url":        "http://localhost:8089",
		"fields":          "CompanyName, City",
		"timeout":         "750ms",
		"insecure":        "true",
		"history_limit":   "9",
		"history_max_age": "30d",
		"client_cert":     "certs/me.pem",
		"client_key":      "certs/me.key",
		"system_roots":    "true",
		"colour":          "blue",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.BaseURL != "http://localhost:8089" || !s.Insecure || s.Timeout != "750ms" || s.HistoryLimit != 9 {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.HistoryMaxAgeDuration() != 30*24*time.Hour || s.ClientCert != "certs/me.pem" || s.ClientKey != "certs/me.key" || !s.SystemRoots {
		t.Fatalf("unexpected tls or history settings %+v", s)
	}
	if len(s.Fields) != 2 || s.Fields[1] != "City" {
		t.Fatalf("unexpected fields %v", s.Fields)
	}
	if len(left) != 1 || left["colour"] != "blue" {
		t.Fatalf("expected unknown key to be left over, got %v", left)
	}
}

func TestForSettingsRejectsBadValues(t *testing.T) {
	s := config.DefaultSettings()
	for _, kv := range []map[string]string{
		{"timeout": "soon"},
		{"insecure": "maybe"},
		{"history_limit": "many"},
		{"history_max_age": "forever"},
		{"system_roots": "sometimes"},
	} {
		if _, err := ForSettings(&s).ApplyAll(kv); !errdef.Is(err, errdef.CodeConfig) {
			t.Fatalf("expected config error for %v, got %v", kv, err)
		}
	}
}

func TestApplyAllReportsFirstBadKeyInOrder(t *testing.T) {
	s := config.DefaultSettings()
	for i := 0; i < 20; i++ {
		_, err := ForSettings(&s).ApplyAll(map[string]string{
			"timeout":       "soon",
			"history_limit": "many",
			"insecure":      "maybe",
		})
		if err == nil || !strings.Contains(err.Error(), "history_limit") {
			t.Fatalf("expected history_limit to be reported first, got %v", err)
		}
	}
}

func TestApplierKeysAndCase(t *testing.T) {
	var got string
	a := NewApplier().Handle(func(v string) error { got = v; return nil }, " Base_URL ")
	if keys := a.Keys(); len(keys) != 1 || keys[0] != "base_url" {
		t.Fatalf("unexpected keys %v", keys)
	}
	left, err := a.ApplyAll(map[string]string{"BASE_URL": "http://x", "": "skip", "Other": "y"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got != "http://x" {
		t.Fatalf("expected setter to receive value, got %q", got)
	}
	if len(left) != 1 || left["other"] != "y" {
		t.Fatalf("unexpected leftovers %v", left)
	}
}

func TestForSettingsCoversEveryKey(t *testing.T) {
	s := config.DefaultSettings()
	want := []string{
		"base_url", "client_cert", "client_key", "entity_set", "fields", "history_limit",
		"history_max_age", "insecure", "log_level", "proxy", "root_cas", "system_roots", "timeout",
	}
	got := ForSettings(&s).Keys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected keys %v", got)
	}
}

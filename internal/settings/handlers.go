package settings

import (
	"strconv"
	"strings"

	"github.com/unkn0wn-root/odatacomplete/internal/config"
	"github.com/unkn0wn-root/odatacomplete/internal/duration"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
)

// ForSettings returns an Applier that writes every known key into s.
func ForSettings(s *config.Settings) *Applier {
	a := NewApplier()

	// transport
	a.Handle(durationInto("timeout", &s.Timeout, false), "timeout")
	a.Handle(textInto(&s.Proxy), "proxy")
	a.Handle(boolInto("insecure", &s.Insecure), "insecure")
	a.Handle(listInto(&s.RootCAs), "root_cas")
	a.Handle(boolInto("system_roots", &s.SystemRoots), "system_roots")
	a.Handle(textInto(&s.ClientCert), "client_cert")
	a.Handle(textInto(&s.ClientKey), "client_key")

	// service
	a.Handle(textInto(&s.BaseURL), "base_url")
	a.Handle(textInto(&s.EntitySet), "entity_set")
	a.Handle(listInto(&s.Fields), "fields")

	// local state
	a.Handle(intInto("history_limit", &s.HistoryLimit), "history_limit")
	a.Handle(durationInto("history_max_age", &s.HistoryMaxAge, true), "history_max_age")
	a.Handle(textInto(&s.LogLevel), "log_level")
	return a
}

func textInto(dst *string) Setter {
	return func(val string) error {
		*dst = val
		return nil
	}
}

func listInto(dst *[]string) Setter {
	return func(val string) error {
		*dst = splitList(val)
		return nil
	}
}

func boolInto(key string, dst *bool) Setter {
	return func(val string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return errdef.Wrap(errdef.CodeConfig, err, "setting %s", key)
		}
		*dst = b
		return nil
	}
}

func intInto(key string, dst *int) Setter {
	return func(val string) error {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return errdef.Wrap(errdef.CodeConfig, err, "setting %s", key)
		}
		*dst = n
		return nil
	}
}

// durationInto keeps the raw text so settings files round-trip; blank clears
// the value when allowBlank is set.
func durationInto(key string, dst *string, allowBlank bool) Setter {
	return func(val string) error {
		if allowBlank && strings.TrimSpace(val) == "" {
			*dst = ""
			return nil
		}
		if _, ok := duration.Parse(val); !ok {
			return errdef.New(errdef.CodeConfig, "setting %s: invalid duration %q", key, val)
		}
		*dst = val
		return nil
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package telemetry

import (
	"strings"
	"time"
)

// Environment knobs, e.g. ODATACOMPLETE_TRACE_OTEL_ENDPOINT=localhost:4317.
const (
	envEndpoint = "ODATACOMPLETE_TRACE_OTEL_ENDPOINT"
	envInsecure = "ODATACOMPLETE_TRACE_OTEL_INSECURE"
	envHeaders  = "ODATACOMPLETE_TRACE_OTEL_HEADERS"
	envService  = "ODATACOMPLETE_TRACE_OTEL_SERVICE"
	envTimeout  = "ODATACOMPLETE_TRACE_OTEL_TIMEOUT"
)

const (
	defaultService = "odatacomplete"
	defaultTimeout = 5 * time.Second
)

// Config describes the OTLP collector lookups are traced to. The zero
// Endpoint disables export.
type Config struct {
	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	ServiceName string
	Version     string
	DialTimeout time.Duration
}

func Default() Config {
	return Config{ServiceName: defaultService, DialTimeout: defaultTimeout}
}

func (c Config) WithVersion(version string) Config {
	c.Version = strings.TrimSpace(version)
	return c
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// ConfigFromEnv starts from Default and overlays whichever knobs parse;
// malformed values are ignored.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Default()
	if getenv == nil {
		return cfg
	}
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	cfg.Endpoint = get(envEndpoint)
	if name := get(envService); name != "" {
		cfg.ServiceName = name
	}
	if on, ok := truthy(get(envInsecure)); ok {
		cfg.Insecure = on
	}
	if d, err := time.ParseDuration(get(envTimeout)); err == nil && d > 0 {
		cfg.DialTimeout = d
	}
	cfg.Headers = headerMap(get(envHeaders))
	return cfg
}

// headerMap reads "k=v,k2=v2". A key without "=" maps to the empty string;
// blank keys are skipped.
func headerMap(raw string) map[string]string {
	var out map[string]string
	for _, entry := range strings.Split(raw, ",") {
		k, v, _ := strings.Cut(entry, "=")
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

func truthy(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

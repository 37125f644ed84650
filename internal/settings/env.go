package settings

import "strings"

// EnvPrefix marks environment variables that override settings, e.g.
// ODATACOMPLETE_SET_BASE_URL=http://localhost:8089.
const EnvPrefix = "ODATACOMPLETE_SET_"

// FromEnviron collects prefixed KEY=value entries from environ, lowercasing
// the key after the prefix.
func FromEnviron(environ []string, prefix string) map[string]string {
	out := make(map[string]string)
	for _, entry := range environ {
		key, val, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(key[len(prefix):]))
		if name != "" {
			out[name] = val
		}
	}
	return out
}

// FromPairs parses key=value pairs as given on the command line. Entries
// without '=' set the key to "true".
func FromPairs(pairs []string) map[string]string {
	out := make(map[string]string)
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if !ok {
			val = "true"
		}
		out[key] = strings.TrimSpace(val)
	}
	return out
}

func Merge(scopes ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, scope := range scopes {
		for k, v := range scope {
			out[k] = v
		}
	}
	return out
}

package settings

import (
	"sort"
	"strings"
)

// Setter stores one raw value, rejecting it when it does not parse.
type Setter func(val string) error

// Applier routes key=value overrides to the setter registered for each key.
// Keys are compared case-insensitively.
type Applier struct {
	setters map[string]Setter
}

func NewApplier() *Applier {
	return &Applier{setters: make(map[string]Setter)}
}

// Handle registers fn for every key in keys, replacing earlier registrations.
func (a *Applier) Handle(fn Setter, keys ...string) *Applier {
	for _, k := range keys {
		a.setters[normalizeKey(k)] = fn
	}
	return a
}

// Keys lists the registered keys in sorted order.
func (a *Applier) Keys() []string {
	out := make([]string, 0, len(a.setters))
	for k := range a.setters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ApplyAll applies values in key order and stops at the first rejected value.
// Keys without a setter are returned untouched.
func (a *Applier) ApplyAll(values map[string]string) (map[string]string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	unknown := make(map[string]string)
	for _, raw := range keys {
		key := normalizeKey(raw)
		if key == "" {
			continue
		}
		set, ok := a.setters[key]
		if !ok {
			unknown[key] = values[raw]
			continue
		}
		if err := set(values[raw]); err != nil {
			return nil, err
		}
	}
	return unknown, nil
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

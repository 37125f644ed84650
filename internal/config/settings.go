package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	yaml "go.yaml.in/yaml/v4"

	"github.com/unkn0wn-root/odatacomplete/internal/duration"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
	"github.com/unkn0wn-root/odatacomplete/internal/odata"
)

type SettingsFormat string

const (
	SettingsFormatTOML SettingsFormat = "toml"
	SettingsFormatYAML SettingsFormat = "yaml"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultHistoryLimit = 200
)

type Settings struct {
	BaseURL      string   `toml:"base_url,omitempty" yaml:"base_url,omitempty"`
	EntitySet    string   `toml:"entity_set,omitempty" yaml:"entity_set,omitempty"`
	Fields       []string `toml:"fields,omitempty" yaml:"fields,omitempty"`
	Timeout      string   `toml:"timeout,omitempty" yaml:"timeout,omitempty"`
	Proxy        string   `toml:"proxy,omitempty" yaml:"proxy,omitempty"`
	Insecure     bool     `toml:"insecure,omitempty" yaml:"insecure,omitempty"`
	RootCAs      []string `toml:"root_cas,omitempty" yaml:"root_cas,omitempty"`
	SystemRoots  bool     `toml:"system_roots,omitempty" yaml:"system_roots,omitempty"`
	ClientCert   string   `toml:"client_cert,omitempty" yaml:"client_cert,omitempty"`
	ClientKey    string   `toml:"client_key,omitempty" yaml:"client_key,omitempty"`
	HistoryLimit int      `toml:"history_limit,omitempty" yaml:"history_limit,omitempty"`
	LogLevel     string   `toml:"log_level,omitempty" yaml:"log_level,omitempty"`

	// HistoryMaxAge drops older selections on start, e.g. "90d". Empty keeps
	// everything up to HistoryLimit.
	HistoryMaxAge string `toml:"history_max_age,omitempty" yaml:"history_max_age,omitempty"`
}

type SettingsHandle struct {
	Path   string
	Format SettingsFormat
}

// DefaultSettings points at the public Northwind service.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:      odata.DefaultBaseURL,
		EntitySet:    odata.DefaultEntitySet,
		Fields:       append([]string(nil), odata.DefaultFields...),
		Timeout:      defaultTimeout.String(),
		HistoryLimit: defaultHistoryLimit,
		LogLevel:     "info",
	}
}

// TimeoutDuration parses Timeout, falling back to the default on bad input.
func (s Settings) TimeoutDuration() time.Duration {
	if d, ok := duration.Parse(s.Timeout); ok && d > 0 {
		return d
	}
	return defaultTimeout
}

// HistoryMaxAgeDuration is zero when no age limit applies.
func (s Settings) HistoryMaxAgeDuration() time.Duration {
	if d, ok := duration.Parse(s.HistoryMaxAge); ok && d > 0 {
		return d
	}
	return 0
}

// Normalize fills zero values from DefaultSettings.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	s.BaseURL = strings.TrimSpace(s.BaseURL)
	if s.BaseURL == "" {
		s.BaseURL = def.BaseURL
	}
	s.EntitySet = strings.TrimSpace(s.EntitySet)
	if s.EntitySet == "" {
		s.EntitySet = def.EntitySet
	}
	fields := s.Fields[:0:0]
	for _, f := range s.Fields {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		fields = def.Fields
	}
	s.Fields = fields
	if strings.TrimSpace(s.Timeout) == "" {
		s.Timeout = def.Timeout
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = def.HistoryLimit
	}
	if strings.TrimSpace(s.LogLevel) == "" {
		s.LogLevel = def.LogLevel
	}
	return s
}

// LoadSettings reads settings from Dir().
func LoadSettings() (Settings, SettingsHandle, error) {
	return LoadSettingsFrom(Dir())
}

// LoadSettingsFrom looks for settings.toml, then settings.yaml/.yml in dir.
// A missing file is not an error and yields normalized defaults with a TOML
// handle so a later save creates settings.toml.
func LoadSettingsFrom(dir string) (Settings, SettingsHandle, error) {
	candidates := []SettingsHandle{
		{Path: filepath.Join(dir, "settings.toml"), Format: SettingsFormatTOML},
		{Path: filepath.Join(dir, "settings.yaml"), Format: SettingsFormatYAML},
		{Path: filepath.Join(dir, "settings.yml"), Format: SettingsFormatYAML},
	}
	for _, handle := range candidates {
		data, err := os.ReadFile(handle.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return DefaultSettings(), handle, errdef.Wrap(errdef.CodeFilesystem, err, "read settings %s", handle.Path)
		}
		settings, err := decodeSettings(data, handle.Format)
		if err != nil {
			return DefaultSettings(), handle, err
		}
		return settings.Normalize(), handle, nil
	}
	return DefaultSettings(), candidates[0], nil
}

func decodeSettings(data []byte, format SettingsFormat) (Settings, error) {
	var settings Settings
	switch format {
	case SettingsFormatYAML:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, errdef.Wrap(errdef.CodeConfig, err, "parse yaml settings")
		}
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return Settings{}, errdef.Wrap(errdef.CodeConfig, err, "parse toml settings")
		}
	}
	return settings, nil
}

// SaveSettings writes settings in the handle's format, replacing the file
// atomically.
func SaveSettings(settings Settings, handle SettingsHandle) error {
	if handle.Path == "" {
		return errdef.New(errdef.CodeConfig, "settings path is empty")
	}
	var (
		data []byte
		err  error
	)
	switch handle.Format {
	case SettingsFormatYAML:
		data, err = yaml.Marshal(settings)
	default:
		data, err = toml.Marshal(settings)
	}
	if err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "encode settings")
	}

	if err := os.MkdirAll(filepath.Dir(handle.Path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "create settings dir")
	}
	tmp := handle.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write settings tmp")
	}
	if err := os.Rename(tmp, handle.Path); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "replace settings file")
	}
	return nil
}

package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"flipclerk/facet"
)

const (
	KeyDeviceURL          = "device.url"
	KeyDevicePassword     = "device.password"
	KeyDeviceZeroBasedIDs = "device.zero_based_ids"
	KeySides              = "sides"
	KeyHistoryFile        = "history.file"
	KeyCacheFile          = "cache.file"
	KeyEditor             = "editor"
)

// The cube has at most 12 usable faces.
const MaxSides = 12

type Config struct {
	Device  DeviceConfig  `mapstructure:"device" validate:"required"`
	Sides   []Side        `mapstructure:"sides"`
	History HistoryConfig `mapstructure:"history"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Editor  string        `mapstructure:"editor"`
}

type DeviceConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	Password     string `mapstructure:"password"`
	ZeroBasedIDs bool   `mapstructure:"zero_based_ids"`
}

type Side struct {
	Name string `mapstructure:"name"`
}

type HistoryConfig struct {
	File string `mapstructure:"file"`
}

type CacheConfig struct {
	File string `mapstructure:"file"`
}

// FacetNames maps facet indexes to their configured display names. Sides
// without a name are absent; rendering falls back to the numeric form.
func (c *Config) FacetNames() map[facet.Facet]string {
	names := make(map[facet.Facet]string, len(c.Sides))
	for i, side := range c.Sides {
		if name := strings.TrimSpace(side.Name); name != "" {
			names[facet.Facet(i)] = name
		}
	}
	return names
}

// SetDefaults sets default values if not provided.
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it.
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# flipclerk configuration
device:
  # HTTP bridge daemon in front of the cube.
  url: "http://127.0.0.1:8721"
  # The bridge forwards this as the cube password; "000000" is the
  # factory default.
  password: "000000"
  zero_based_ids: true

# One block per physical face, in facet order. Leave a name empty to keep
# the numeric label.
sides:
  - name: "work"
  - name: "break"
  - name: ""
  - name: ""
  - name: ""
  - name: ""
  - name: ""
  - name: ""
  - name: ""
  - name: ""
  - name: ""
  - name: ""

history:
  # Defaults to $HOME/.flipclerk/history.json when empty.
  file: ""

cache:
  # Optional incremental device cache; no cache is used when empty and
  # --update is not given.
  file: ""

# Editor for "history edit"; $VISUAL/$EDITOR/vi are used when empty.
editor: ""
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if len(cfg.Sides) > MaxSides {
		return nil, fmt.Errorf("validation failed: %d sides configured, the cube has at most %d", len(cfg.Sides), MaxSides)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDeviceURL, "http://127.0.0.1:8721")
	v.SetDefault(KeyDevicePassword, "000000")
	v.SetDefault(KeyDeviceZeroBasedIDs, true)
	v.SetDefault(KeySides, []map[string]any{})
	v.SetDefault(KeyHistoryFile, "")
	v.SetDefault(KeyCacheFile, "")
	v.SetDefault(KeyEditor, "")
}

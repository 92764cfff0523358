// Package config loads session settings from TOML or YAML files and TERMWIRE_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termwire/terminal"
	"github.com/lixenwraith/termwire/terminal/keys"
	"github.com/lixenwraith/termwire/terminal/shm"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TERMWIRE_"

// Limits enforced by Validate
const (
	MaxPollTimeout = time.Second
	MinReadBuffer  = 64
	MaxReadBuffer  = 1 << 20
	MinMaxBody     = 256
	MaxMaxBody     = 16 << 20
)

// Config holds session settings
type Config struct {
	PollTimeout string   `toml:"poll_timeout" yaml:"poll_timeout"`
	ReadBuffer  int      `toml:"read_buffer" yaml:"read_buffer"`
	MaxBody     int      `toml:"max_body" yaml:"max_body"`
	Keyboard    []string `toml:"keyboard" yaml:"keyboard"`
	Mouse       bool     `toml:"mouse" yaml:"mouse"`
	Medium      string   `toml:"medium" yaml:"medium"`
	ShmPrefix   string   `toml:"shm_prefix" yaml:"shm_prefix"`
	Title       string   `toml:"title" yaml:"title"`
	SyncPaint   bool     `toml:"sync_paint" yaml:"sync_paint"`
	Debug       bool     `toml:"debug" yaml:"debug"`
}

// Default returns working defaults: full keyboard reporting, mouse on, shared memory frames
func Default() Config {
	return Config{
		PollTimeout: terminal.DefaultPollTimeout.String(),
		ReadBuffer:  terminal.DefaultReadBuffer,
		MaxBody:     64 << 10,
		Keyboard:    []string{"all"},
		Mouse:       true,
		Medium:      "shm",
		ShmPrefix:   "termwire",
	}
}

// Load reads a TOML or YAML file over the defaults; the format follows the extension
// Unknown keys are rejected
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config file %s: unsupported format %q", path, filepath.Ext(path))
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TERMWIRE_* variables found by lookup
// Booleans accept true/yes/on/1 and false/no/off/0; keyboard flags are comma-separated
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		return lookup(EnvPrefix + name)
	}

	if v, ok := get("POLL_TIMEOUT"); ok {
		c.PollTimeout = v
	}
	if v, ok := get("READ_BUFFER"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREAD_BUFFER: %w", EnvPrefix, err)
		}
		c.ReadBuffer = n
	}
	if v, ok := get("MAX_BODY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_BODY: %w", EnvPrefix, err)
		}
		c.MaxBody = n
	}
	if v, ok := get("KEYBOARD"); ok {
		c.Keyboard = strings.Split(v, ",")
	}
	if v, ok := get("MOUSE"); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%sMOUSE: %w", EnvPrefix, err)
		}
		c.Mouse = b
	}
	if v, ok := get("MEDIUM"); ok {
		c.Medium = v
	}
	if v, ok := get("SHM_PREFIX"); ok {
		c.ShmPrefix = v
	}
	if v, ok := get("TITLE"); ok {
		c.Title = v
	}
	if v, ok := get("SYNC_PAINT"); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%sSYNC_PAINT: %w", EnvPrefix, err)
		}
		c.SyncPaint = b
	}
	if v, ok := get("DEBUG"); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", EnvPrefix, err)
		}
		c.Debug = b
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// Validate rejects out-of-range or unknown values
func (c Config) Validate() error {
	var errs []error

	d, err := time.ParseDuration(c.PollTimeout)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("poll_timeout: %w", err))
	case d <= 0 || d > MaxPollTimeout:
		errs = append(errs, fmt.Errorf("poll_timeout %v outside (0, %v]", d, MaxPollTimeout))
	}
	if c.ReadBuffer < MinReadBuffer || c.ReadBuffer > MaxReadBuffer {
		errs = append(errs, fmt.Errorf("read_buffer %d outside [%d, %d]", c.ReadBuffer, MinReadBuffer, MaxReadBuffer))
	}
	if c.MaxBody < MinMaxBody || c.MaxBody > MaxMaxBody {
		errs = append(errs, fmt.Errorf("max_body %d outside [%d, %d]", c.MaxBody, MinMaxBody, MaxMaxBody))
	}
	if _, err := keys.ParseFlags(c.Keyboard); err != nil {
		errs = append(errs, fmt.Errorf("keyboard: %w", err))
	}
	if _, err := shm.ParseMedium(c.Medium); err != nil {
		errs = append(errs, fmt.Errorf("medium: %w", err))
	}
	if strings.ContainsAny(c.ShmPrefix, "/\x00") {
		errs = append(errs, fmt.Errorf("shm_prefix %q must not contain '/' or NUL", c.ShmPrefix))
	}
	return errors.Join(errs...)
}

// Options validates and converts the config to session options
func (c Config) Options() (terminal.Options, error) {
	if err := c.Validate(); err != nil {
		return terminal.Options{}, err
	}
	poll, err := time.ParseDuration(c.PollTimeout)
	if err != nil {
		return terminal.Options{}, fmt.Errorf("poll_timeout: %w", err)
	}
	flags, err := keys.ParseFlags(c.Keyboard)
	if err != nil {
		return terminal.Options{}, fmt.Errorf("keyboard: %w", err)
	}
	medium, err := shm.ParseMedium(c.Medium)
	if err != nil {
		return terminal.Options{}, fmt.Errorf("medium: %w", err)
	}

	return terminal.Options{
		PollTimeout: poll,
		ReadBuffer:  c.ReadBuffer,
		MaxBody:     c.MaxBody,
		Keyboard:    flags,
		Mouse:       c.Mouse,
		Title:       c.Title,
		Medium:      medium,
		ShmPrefix:   c.ShmPrefix,
		SyncPaint:   c.SyncPaint,
	}, nil
}

package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Resolve layers settings: defaults, config file, TERMWIRE_* variables, TERMWIRE_OPTS words, args
// The file comes from -config or TERMWIRE_CONFIG; remaining positional arguments stay in fs.Args()
func Resolve(fs *flag.FlagSet, args []string, lookup func(string) (string, bool)) (Config, error) {
	def := Default()
	path := fs.String("config", "", "config file (.toml, .yaml, .yml)")
	fs.Bool("debug", def.Debug, "write logs/termwire.log")
	fs.Bool("mouse", def.Mouse, "enable mouse reporting")
	fs.Bool("sync", def.SyncPaint, "wrap frames in synchronized updates")
	fs.String("keyboard", strings.Join(def.Keyboard, ","), "keyboard protocol flags, comma-separated")
	fs.String("medium", def.Medium, "graphics medium: shm or file")
	fs.String("title", def.Title, "window title")
	fs.String("poll", def.PollTimeout, "input poll timeout")

	var words []string
	if opts, ok := lookup(EnvPrefix + "OPTS"); ok {
		var err error
		if words, err = shellwords.Parse(opts); err != nil {
			return def, fmt.Errorf("%sOPTS: %w", EnvPrefix, err)
		}
	}
	if err := fs.Parse(append(words, args...)); err != nil {
		return def, err
	}

	cfg := def
	if *path == "" {
		*path, _ = lookup(EnvPrefix + "CONFIG")
	}
	if *path != "" {
		loaded, err := Load(*path)
		if err != nil {
			return def, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "debug":
			cfg.Debug = v == "true"
		case "mouse":
			cfg.Mouse = v == "true"
		case "sync":
			cfg.SyncPaint = v == "true"
		case "keyboard":
			cfg.Keyboard = strings.Split(v, ",")
		case "medium":
			cfg.Medium = v
		case "title":
			cfg.Title = v
		case "poll":
			cfg.PollTimeout = v
		}
	})
	return cfg, cfg.Validate()
}

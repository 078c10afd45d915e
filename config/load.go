package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/johnae/whynot-go/werrors"
)

// Overrides carries CLI-flag-supplied values, the top of spec.md §6's
// precedence chain. A nil pointer field means "flag not set" and falls
// through to the next layer.
type Overrides struct {
	ReadingHost *string
	ReadingUser *string
	ReadingPort *int

	SendingHost *string
	SendingUser *string
	SendingPort *int

	WebBind *string
}

// Load resolves the full configuration: defaults, then path's TOML file (if
// non-empty and it exists), then WHYNOT_*/legacy NOTMUCH_* environment
// variables, then overrides — in increasing priority, per spec.md §6.
func Load(path string, overrides Overrides) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	applyOverrides(&cfg, overrides)

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &werrors.IOError{Op: "read config file", Err: err}
	}

	var shape fileShape
	shape.Mail.Reading = cfg.Reading
	shape.Mail.Sending = cfg.Sending
	shape.UI.Web = cfg.Web
	shape.UI.TUI = cfg.TUI
	shape.User = cfg.User
	shape.General = cfg.General

	if err := toml.Unmarshal(data, &shape); err != nil {
		return &werrors.ConfigError{Key: path, Err: err}
	}

	cfg.Reading = shape.Mail.Reading
	cfg.Sending = shape.Mail.Sending
	cfg.Web = shape.UI.Web
	cfg.TUI = shape.UI.TUI
	cfg.User = shape.User
	cfg.General = shape.General
	return nil
}

// applyEnv implements spec.md §6's "env (WHYNOT_* and legacy
// NOTMUCH_HOST/USER/PORT)" layer. Legacy variables apply only to the
// reading (indexer) side, matching the notmuch-specific names.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("NOTMUCH_HOST"); ok {
		cfg.Reading.Host = v
		cfg.Reading.Type = "remote"
	}
	if v, ok := os.LookupEnv("NOTMUCH_USER"); ok {
		cfg.Reading.User = v
	}
	if v, ok := os.LookupEnv("NOTMUCH_PORT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Reading.Port = n
		}
	}

	if v, ok := os.LookupEnv("WHYNOT_READING_HOST"); ok {
		cfg.Reading.Host = v
		cfg.Reading.Type = "remote"
	}
	if v, ok := os.LookupEnv("WHYNOT_READING_USER"); ok {
		cfg.Reading.User = v
	}
	if v, ok := os.LookupEnv("WHYNOT_SENDING_HOST"); ok {
		cfg.Sending.Host = v
		cfg.Sending.Type = "remote"
	}
	if v, ok := os.LookupEnv("WHYNOT_SENDING_USER"); ok {
		cfg.Sending.User = v
	}
	if v, ok := os.LookupEnv("WHYNOT_WEB_BIND"); ok {
		cfg.Web.Bind = v
	}
	if v, ok := os.LookupEnv("WHYNOT_USER_EMAIL"); ok {
		cfg.User.Email = v
	}
	if v, ok := os.LookupEnv("WHYNOT_USER_NAME"); ok {
		cfg.User.Name = v
	}
	if v, ok := os.LookupEnv("WHYNOT_GENERAL_AUTO_REFRESH_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.General.AutoRefreshInterval = d
		}
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.ReadingHost != nil {
		cfg.Reading.Host = *o.ReadingHost
		cfg.Reading.Type = "remote"
	}
	if o.ReadingUser != nil {
		cfg.Reading.User = *o.ReadingUser
	}
	if o.ReadingPort != nil {
		cfg.Reading.Port = *o.ReadingPort
	}
	if o.SendingHost != nil {
		cfg.Sending.Host = *o.SendingHost
		cfg.Sending.Type = "remote"
	}
	if o.SendingUser != nil {
		cfg.Sending.User = *o.SendingUser
	}
	if o.SendingPort != nil {
		cfg.Sending.Port = *o.SendingPort
	}
	if o.WebBind != nil {
		cfg.Web.Bind = *o.WebBind
	}
}

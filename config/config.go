// Package config resolves whynot-go's layered configuration: CLI flags
// override environment variables, which override the TOML config file,
// which overrides built-in defaults (spec.md §6).
package config

import "time"

// ServiceConfig is one side of the executor tagged union (reading or
// sending), expressed as plain config fields rather than executor.Config
// itself so the TOML shape matches spec.md §6 exactly; cmd/ entrypoints
// translate it into an executor.Config/executor.Executor.
type ServiceConfig struct {
	Type         string `toml:"type"` // "local" or "remote"
	Host         string `toml:"host"`
	User         string `toml:"user"`
	Port         int    `toml:"port"`
	BinaryPath   string `toml:"binary_path"`
	DatabasePath string `toml:"database_path"`
	ConfigPath   string `toml:"config_path"`
	IdentityFile string `toml:"identity_file"`
}

// WebConfig is the [ui.web] section.
type WebConfig struct {
	Bind                  string `toml:"bind"`
	BaseURL               string `toml:"base_url"`
	ItemsPerPage          int    `toml:"items_per_page"`
	DefaultTheme          string `toml:"default_theme"`
	InitialPageSize       int    `toml:"initial_page_size"`
	PaginationSize        int    `toml:"pagination_size"`
	InfiniteScrollEnabled bool   `toml:"infinite_scroll_enabled"`
}

// TUIConfig is the [ui.tui] section. Its only knob is text_renderer; the
// TUI's page size and theme are shared with WebConfig, and its refresh
// interval lives in GeneralConfig.
type TUIConfig struct {
	TextRenderer string `toml:"text_renderer"` // "builtin", "external", "auto"
}

// UserConfig is the [user] section.
type UserConfig struct {
	Name      string `toml:"name"`
	Email     string `toml:"email"`
	Signature string `toml:"signature"`
}

// GeneralConfig is the [general] section.
type GeneralConfig struct {
	AutoRefreshInterval time.Duration `toml:"auto_refresh_interval"`
	ThreadingEnabled    bool          `toml:"threading_enabled"`
}

// Config is the fully-resolved configuration tree, per spec.md §6.
type Config struct {
	Reading ServiceConfig `toml:"reading"`
	Sending ServiceConfig `toml:"sending"`
	Web     WebConfig     `toml:"web"`
	TUI     TUIConfig     `toml:"tui"`
	User    UserConfig    `toml:"user"`
	General GeneralConfig `toml:"general"`
}

// fileShape mirrors the TOML file's top-level [mail.reading]/[mail.sending]
// and [ui.web]/[ui.tui] sections, which go-toml/v2 needs as nested structs
// since the dotted section names aren't Go-field-shaped.
type fileShape struct {
	Mail struct {
		Reading ServiceConfig `toml:"reading"`
		Sending ServiceConfig `toml:"sending"`
	} `toml:"mail"`
	UI struct {
		Web WebConfig `toml:"web"`
		TUI TUIConfig `toml:"tui"`
	} `toml:"ui"`
	User    UserConfig    `toml:"user"`
	General GeneralConfig `toml:"general"`
}

// Defaults returns the built-in configuration, the bottom of spec.md §6's
// precedence chain.
func Defaults() Config {
	return Config{
		Reading: ServiceConfig{Type: "local", BinaryPath: "notmuch"},
		Sending: ServiceConfig{Type: "local", BinaryPath: "msmtp"},
		Web: WebConfig{
			Bind:                  "127.0.0.1:8080",
			BaseURL:               "",
			ItemsPerPage:          50,
			DefaultTheme:          "light",
			InitialPageSize:       20,
			PaginationSize:        20,
			InfiniteScrollEnabled: false,
		},
		TUI: TUIConfig{TextRenderer: "auto"},
		General: GeneralConfig{
			AutoRefreshInterval: 60 * time.Second,
			ThreadingEnabled:    true,
		},
	}
}

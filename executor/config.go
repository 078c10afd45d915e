package executor

// Config is the tagged union from spec.md §3: exactly one of Local/Remote is
// populated, and that choice is immutable after construction (there is no
// setter on Executor itself — build a new one to change variant).
type Config struct {
	Local  *LocalConfig
	Remote *RemoteConfig
}

// LocalConfig spawns the tool directly on this host.
type LocalConfig struct {
	// BinaryPath overrides the default binary name ("notmuch"/"msmtp").
	BinaryPath string
	// DatabasePath, if set, is exported as NOTMUCH_DATABASE.
	DatabasePath string
	// ConfigPath, if set, is exported as NOTMUCH_CONFIG. If empty and
	// DatabasePath is set, the ".notmuch-config" file alongside the
	// database directory is used when present (spec.md §4.B).
	ConfigPath string
	// MailRoot is the maildir root the indexer indexes; informational for
	// insert/new operations that need to resolve relative folder names.
	MailRoot string
}

// RemoteConfig runs the tool on a remote host via a shell tunnel (ssh).
type RemoteConfig struct {
	Host         string
	User         string
	Port         int
	IdentityFile string
	// BinaryPath overrides the default remote binary name.
	BinaryPath string
}

// Tunnel hardening constants from spec.md §4.B / §6, expressed in the units
// ssh's -o flags expect (whole seconds / a bare count).
const (
	tunnelConnectTimeoutSecs   = 30
	tunnelKeepaliveIntervalSec = 60
	tunnelKeepaliveMaxCount    = 3
)

// Package config resolves the coordinator's ambient configuration: an
// optional TOML file overridden by RT_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/florentinl/rt/internal/logger"
)

// Environment variable names forming the ambient configuration contract.
const (
	EnvServices        = "RT_SERVICES"
	EnvProjectRoot     = "RT_PROJECT_ROOT"
	EnvOriginalCommand = "RT_ORIGINAL_COMMAND"
	EnvMarkerKey       = "RT_MARKER_KEY"
	EnvSettle          = "RT_SETTLE"
	EnvLockFile        = "RT_LOCK_FILE"
	EnvJournalDSN      = "RT_JOURNAL_DSN"
)

// Config is the resolved session configuration.
type Config struct {
	// Services is the ordered service set; empty means nothing to manage.
	Services []string
	// ProjectRoot is the service manager's working directory; empty means
	// the current directory.
	ProjectRoot string
	// OriginalCommand is the session's original command line, used for
	// best-effort service-identity restoration. Empty skips the step.
	OriginalCommand string
	// MarkerKey overrides the ownership marker environment key.
	MarkerKey string
	// Settle is the post-start settle interval; zero means the default.
	Settle time.Duration
	// LockFile, when non-empty, switches ownership claiming from the
	// environment slot to an exclusive lock on this path.
	LockFile string
	// JournalDSN is the sqlite DSN for the session journal; empty disables it.
	JournalDSN string

	Log logger.Config
}

// Load resolves configuration from an optional TOML file plus RT_*
// environment variables; the environment wins over the file. path == ""
// skips the file entirely.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Services:        SplitServices(v.GetString("services")),
		ProjectRoot:     v.GetString("project_root"),
		OriginalCommand: v.GetString("original_command"),
		MarkerKey:       v.GetString("marker_key"),
		Settle:          v.GetDuration("settle"),
		LockFile:        v.GetString("lock_file"),
		JournalDSN:      v.GetString("journal_dsn"),
		Log: logger.Config{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
	}
	return cfg, nil
}

// SplitServices parses the comma-separated service list, preserving order,
// trimming whitespace and dropping empty entries.
func SplitServices(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

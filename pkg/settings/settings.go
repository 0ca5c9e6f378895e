// Package settings loads the meshview.toml settings file.
//
// Every field has a default (see [Default]); a settings file only needs the
// keys it changes:
//
//	[server]
//	addr = ":9090"
//	session_ttl = "2h"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[log]
//	level = "debug"
//
// Command-line flags take precedence over file values.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/meshview/pkg/errors"
)

// FileName is the settings file looked up by [DefaultPath].
const FileName = "meshview.toml"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
)

var validate = validator.New()

// Settings is the decoded settings file.
type Settings struct {
	Server ServerSettings `toml:"server"`
	Cache  CacheSettings  `toml:"cache"`
	Log    LogSettings    `toml:"log"`
}

// ServerSettings configures "meshview serve".
type ServerSettings struct {
	Addr         string        `toml:"addr" validate:"required"`
	SessionTTL   time.Duration `toml:"session_ttl" validate:"min=1s"`
	MaxBodyBytes int64         `toml:"max_body_bytes" validate:"min=1024"`

	// SessionDir persists sessions across restarts. Empty keeps them in
	// memory only.
	SessionDir string `toml:"session_dir"`
}

// CacheSettings selects and configures the render cache.
type CacheSettings struct {
	Backend         string        `toml:"backend" validate:"oneof=none file redis mongo"`
	Dir             string        `toml:"dir"`
	TTL             time.Duration `toml:"ttl" validate:"min=0"`
	RedisAddr       string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB         int           `toml:"redis_db" validate:"min=0"`
	MongoURI        string        `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:         ":8080",
			SessionTTL:   time.Hour,
			MaxBodyBytes: 8 << 20,
		},
		Cache: CacheSettings{
			Backend:         CacheFile,
			TTL:             24 * time.Hour,
			MongoDatabase:   "meshview",
			MongoCollection: "renders",
		},
		Log: LogSettings{Level: "info"},
	}
}

// DefaultPath returns the settings file in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "meshview", FileName), nil
}

// Load returns the defaults overlaid with the file at path. A missing file
// yields the defaults when optional is set and FILE_NOT_FOUND otherwise.
func Load(path string, optional bool) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	md, err := toml.DecodeFile(path, &s)
	if os.IsNotExist(err) {
		if optional {
			return Default(), nil
		}
		return s, errors.Wrap(errors.ErrCodeFileNotFound, err, "settings file %s", path)
	}
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse settings %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return s, errors.New(errors.ErrCodeInvalidInput, "unknown settings keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks value ranges and backend requirements.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid settings")
	}
	return nil
}

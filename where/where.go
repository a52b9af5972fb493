// Package where resolves the filesystem locations ytfree reads and writes.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "YTFREE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory: $YTFREE_CONFIG_PATH, or the
// platform user config dir joined with the application name.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Ytfree))
}

// Cache is the cache directory. Falls back to ./cache when the platform has none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Ytfree))
}

// Logs is the directory for daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sources holds custom Lua catalog scripts.
func Sources() string {
	return ensureDir(filepath.Join(Config(), "sources"))
}

// State is the persisted player preferences record.
func State() string {
	return filepath.Join(Config(), "state.json")
}

// History is the listening log.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Database is the sqlite file backing playlists.
func Database() string {
	return filepath.Join(Config(), constant.Ytfree+".db")
}

// Queries is the search query suggestion registry.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Results is the directory of cached catalog pages.
func Results() string {
	return ensureDir(filepath.Join(Cache(), "results"))
}

// Temp is a volatile directory for IPC sockets and scratch files.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Ytfree))
}

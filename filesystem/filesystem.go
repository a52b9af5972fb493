// Package filesystem wraps afero so every persisted artifact (config, prefs, caches, database files)
// can be redirected to an in-memory backend in tests.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// IsVirtual reports whether the backend is not the real disk.
// Components that hand paths to external processes (sqlite, mpv) check it.
func IsVirtual() bool {
	_, ok := backend.Fs.(*afero.OsFs)
	return !ok
}

package util

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ytfree-cli/ytfree/filesystem"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]+`)
	repeatedUnderscores = regexp.MustCompile(`__+`)
	edgeSeparators      = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename turns a catalog or playlist name into a portable file name.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = repeatedUnderscores.ReplaceAllString(name, "_")
	return edgeSeparators.ReplaceAllString(name, "")
}

// FileStem is the base name of path without its last extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Delete removes path, recursively when it is a directory.
func Delete(path string) error {
	fs := filesystem.API()

	isDir, err := fs.IsDir(path)
	if err != nil {
		return err
	}
	if isDir {
		return fs.RemoveAll(path)
	}
	return fs.Remove(path)
}

// Package cache keeps catalog pages on disk for a while so repeated searches do not hit the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/where"
)

const TTL = 24 * time.Hour

// GenerateKey derives a file name from a query, a page token and the catalog that answered it.
func GenerateKey(query, page, catalog string) string {
	sanitized := strings.ToLower(strings.ReplaceAll(query, " ", "")) + "\x00" + page + "\x00" + catalog
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

// Read decodes a cached value into target if it exists and is younger than TTL.
func Read(key string, target any) bool {
	path := filepath.Join(where.Results(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, target) == nil
}

// Write stores data under key, swapping the file in atomically.
func Write(key string, data any) error {
	path := filepath.Join(where.Results(), key)
	tmpPath := path + ".tmp"

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := filesystem.API().WriteFile(tmpPath, encoded, 0o644); err != nil {
		return err
	}

	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage removes expired entries in the background.
func CollectGarbage() {
	go func() {
		dir := where.Results()
		_ = filesystem.API().Walk(dir, func(path string, info fs.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if time.Since(info.ModTime()) > TTL {
				_ = filesystem.API().Remove(path)
			}
			return nil
		})
	}()
}

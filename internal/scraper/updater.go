package scraper

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/ytfree-cli/ytfree/filesystem"
)

// Fetch downloads remoteURL and swaps it in at localPath when its content
// differs from what is on disk. It reports whether the file changed.
func Fetch(ctx context.Context, client *http.Client, remoteURL, localPath string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetch %s: unexpected status %s", remoteURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if local, err := filesystem.API().ReadFile(localPath); err == nil && sha256.Sum256(local) == sha256.Sum256(body) {
		return false, nil
	}

	tmpPath := localPath + ".tmp"
	if err := filesystem.API().WriteFile(tmpPath, body, 0o644); err != nil {
		return false, err
	}

	if err := filesystem.API().Rename(tmpPath, localPath); err != nil {
		_ = filesystem.API().Remove(tmpPath)
		return false, err
	}

	Invalidate(localPath)
	return true, nil
}

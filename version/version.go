// Package version checks GitHub for newer releases.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/network"
	"github.com/ytfree-cli/ytfree/util"
	"github.com/ytfree-cli/ytfree/where"
)

var releasesURL = "https://api.github.com/repos/" + constant.Repository + "/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest release version without the v prefix. Answers are cached for two days.
func Latest(ctx context.Context) (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release check: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	ver = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(ver)
	return ver, nil
}

package mpv

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const watchURL = "https://www.youtube.com/watch?v="

// Target turns a media key into something mpv can open. URLs and absolute
// paths pass through, "ytsearch" queries go to the ytdl hook, and anything
// else is taken as a YouTube video id.
func Target(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", errors.New("empty media key")
	}

	if strings.ContainsAny(k, "\x00\n\r") {
		return "", errors.New("invalid control characters in media key")
	}

	// keys come from catalogs and Lua scripts, never let one read as a flag
	if strings.HasPrefix(k, "-") {
		return "", errors.New("media key must not start with '-' (looks like a flag)")
	}

	if strings.Contains(k, "://") {
		u, err := url.Parse(k)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "ytdl":
			return k, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	if strings.HasPrefix(k, "ytsearch") {
		return "ytdl://" + k, nil
	}

	if filepath.IsAbs(k) {
		return filepath.Clean(k), nil
	}

	return watchURL + url.QueryEscape(k), nil
}

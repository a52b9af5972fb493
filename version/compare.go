package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Compare orders two release versions, with or without the leading "v".
// It returns 1 when a is newer, -1 when b is newer and 0 when they match.
// Pre-releases sort before their release: 1.2.0-rc.1 < 1.2.0.
func Compare(a, b string) (int, error) {
	va, err := canonical(a)
	if err != nil {
		return 0, err
	}

	vb, err := canonical(b)
	if err != nil {
		return 0, err
	}

	return semver.Compare(va, vb), nil
}

func canonical(v string) (string, error) {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", strings.TrimPrefix(v, "v"))
	}
	return v, nil
}

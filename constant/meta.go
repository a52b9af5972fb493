// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Ytfree is the canonical application identifier used for filesystem paths and CLI branding.
	Ytfree = "ytfree"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the HTTP User-Agent sent to catalog endpoints and the release API.
	UserAgent = "ytfree/" + Version + " (+https://github.com/ytfree-cli/ytfree)"

	// Repository is the GitHub slug used for release checks.
	Repository = "ytfree-cli/ytfree"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

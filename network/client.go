// Package network holds the HTTP clients shared by catalogs, script updates and the release check.
package network

import (
	"net/http"
	"time"

	"github.com/ytfree-cli/ytfree/constant"
)

// Client is the default client. Requests without a User-Agent are sent with
// the application's.
var Client = &http.Client{
	Timeout: time.Minute,
	Transport: &userAgentTransport{
		agent: constant.UserAgent,
		next:  pooledTransport(),
	},
}

// pooledTransport keeps connections to catalog hosts alive between searches.
func pooledTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 20 * time.Second
	return t
}

type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(req)
}

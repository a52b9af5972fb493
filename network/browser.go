package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const browserTimeout = 30 * time.Second

// BrowserUserAgent matches the TLS fingerprint of Browser.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Browser presents a Chrome TLS fingerprint. Catalog scripts use it for sites
// that reject the Go TLS handshake.
var Browser = &http.Client{
	Timeout:   browserTimeout,
	Transport: newFingerprintTransport(),
}

// fingerprintTransport tries HTTP/2 first and falls back to HTTP/1.1 when the
// server does not negotiate h2.
type fingerprintTransport struct {
	h2 http.RoundTripper
	h1 http.RoundTripper
}

func newFingerprintTransport() *fingerprintTransport {
	return &fingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, network, addr, nil)
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChrome(ctx, network, addr, []string{"http/1.1"})
			},
			IdleConnTimeout: 30 * time.Second,
		},
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry, rerr := rewind(req)
	if rerr != nil {
		return nil, err
	}

	return t.h1.RoundTrip(retry)
}

// rewind clones req with a fresh body for a second attempt.
func rewind(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}

	if req.GetBody == nil {
		return nil, fmt.Errorf("request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}

// dialChrome opens a TLS connection with the Chrome 120 ClientHello. A nil
// protos advertises h2 and http/1.1 like the browser does.
func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: browserTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

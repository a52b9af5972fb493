package network

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func ok(body string) *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}
}

func TestFingerprintTransport(t *testing.T) {
	Convey("Given a transport with recorded h2 and h1 legs", t, func() {
		var calls []string
		var h1Body string
		h2Err := errors.New("h2 refused")

		tr := &fingerprintTransport{
			h2: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				calls = append(calls, "h2")
				if r.Body != nil {
					_, _ = io.ReadAll(r.Body)
				}
				return nil, h2Err
			}),
			h1: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				calls = append(calls, "h1")
				if r.Body != nil {
					data, _ := io.ReadAll(r.Body)
					h1Body = string(data)
				}
				return ok("h1"), nil
			}),
		}

		Convey("Plain http skips h2", func() {
			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			_, err := tr.RoundTrip(req)
			So(err, ShouldBeNil)
			So(calls, ShouldResemble, []string{"h1"})
		})

		Convey("A failed h2 attempt is retried over h1 with the same body", func() {
			req, _ := http.NewRequest(http.MethodPost, "https://example.com", strings.NewReader("payload"))
			resp, err := tr.RoundTrip(req)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(calls, ShouldResemble, []string{"h2", "h1"})
			So(h1Body, ShouldEqual, "payload")
		})

		Convey("A body that cannot be replayed keeps the h2 error", func() {
			req := &http.Request{
				Method: http.MethodPost,
				URL:    &url.URL{Scheme: "https", Host: "example.com"},
				Header: http.Header{},
				Body:   io.NopCloser(strings.NewReader("once")),
			}
			_, err := tr.RoundTrip(req)
			So(err, ShouldEqual, h2Err)
			So(calls, ShouldResemble, []string{"h2"})
		})

		Convey("A successful h2 attempt is returned directly", func() {
			tr.h2 = roundTripFunc(func(*http.Request) (*http.Response, error) {
				calls = append(calls, "h2")
				return ok("h2"), nil
			})
			req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
			_, err := tr.RoundTrip(req)
			So(err, ShouldBeNil)
			So(calls, ShouldResemble, []string{"h2"})
		})
	})
}

func TestUserAgentTransport(t *testing.T) {
	Convey("Given a user agent transport", t, func() {
		var seen string
		tr := &userAgentTransport{
			agent: "ytfree/test",
			next: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				seen = r.Header.Get("User-Agent")
				return ok(""), nil
			}),
		}

		Convey("Requests without one get the application agent", func() {
			req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
			_, err := tr.RoundTrip(req)
			So(err, ShouldBeNil)
			So(seen, ShouldEqual, "ytfree/test")
			So(req.Header.Get("User-Agent"), ShouldBeEmpty)
		})

		Convey("An explicit agent is kept", func() {
			req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
			req.Header.Set("User-Agent", BrowserUserAgent)
			_, err := tr.RoundTrip(req)
			So(err, ShouldBeNil)
			So(seen, ShouldEqual, BrowserUserAgent)
		})
	})
}

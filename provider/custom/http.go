package custom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ytfree-cli/ytfree/network"
	lua "github.com/yuin/gopher-lua"
)

// browserModule is the Lua name of the fingerprinted HTTP client.
const browserModule = "http_browser"

// registerBrowser installs http_browser.get(url [, headers]) and
// http_browser.request{method, url, headers, body} into L.
func registerBrowser(L *lua.LState, client *http.Client) {
	mod := L.NewTable()

	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		url := L.CheckString(1)
		headers := headersFrom(L.OptTable(2, nil))

		body, _, err := browse(L.Context(), client, http.MethodGet, url, headers, "")
		if err != nil {
			L.RaiseError("%s.get: %s", browserModule, err.Error())
			return 0
		}

		L.Push(lua.LString(body))
		return 1
	}))

	L.SetField(mod, "request", L.NewFunction(func(L *lua.LState) int {
		opts := L.CheckTable(1)

		url := getString(opts, "url")
		if url == "" {
			L.RaiseError("%s.request: url is required", browserModule)
			return 0
		}

		method := strings.ToUpper(getString(opts, "method"))
		if method == "" {
			method = http.MethodGet
		}

		headers := headersFrom(nil)
		if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
			headers = headersFrom(tbl)
		}

		body, status, err := browse(L.Context(), client, method, url, headers, getString(opts, "body"))
		if err != nil {
			L.RaiseError("%s.request: %s", browserModule, err.Error())
			return 0
		}

		result := L.NewTable()
		L.SetField(result, "status", lua.LNumber(status))
		L.SetField(result, "body", lua.LString(body))
		L.Push(result)
		return 1
	}))

	L.SetGlobal(browserModule, mod)
}

func headersFrom(tbl *lua.LTable) map[string]string {
	headers := make(map[string]string)
	if tbl == nil {
		return headers
	}

	tbl.ForEach(func(k, v lua.LValue) {
		headers[k.String()] = v.String()
	})
	return headers
}

func browse(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body string) (string, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", network.BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return string(data), resp.StatusCode, nil
}

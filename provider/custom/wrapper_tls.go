package custom

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/streamscout/streamscout/constant"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/http2"
)

const httpTimeout = 30 * time.Second

// registerTLSClient exposes an HTTP client whose TLS handshake carries a
// Chrome fingerprint (utls HelloChrome_120). HTTP/2 is tried first; on
// failure the request is retried over an HTTP/1.1-only connection.
// Requests are bound to the context of the running provider call.
//
//	http_tls.get(url [, headers])                     -> body
//	http_tls.request{method=, url=, headers=, body=}  -> {status, body, headers}
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

type tlsRequest struct {
	method  string
	url     string
	headers map[string]string
	body    string
}

type tlsResponse struct {
	status  int
	body    string
	headers http.Header
}

func headersOf(tbl *lua.LTable) map[string]string {
	headers := make(map[string]string)
	if tbl != nil {
		tbl.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}
	return headers
}

func httpTLSGet(L *lua.LState) int {
	resp, err := doTLSRequest(contextOf(L), tlsRequest{
		method:  http.MethodGet,
		url:     L.CheckString(1),
		headers: headersOf(L.OptTable(2, nil)),
	})
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(resp.body))
	return 1
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	req := tlsRequest{
		method: getStringField(opts, "method", http.MethodGet),
		url:    getStringField(opts, "url", ""),
		body:   getStringField(opts, "body", ""),
	}
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		req.headers = headersOf(tbl)
	}

	if req.url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	resp, err := doTLSRequest(contextOf(L), req)
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	headers := L.NewTable()
	for k := range resp.headers {
		headers.RawSetString(k, lua.LString(resp.headers.Get(k)))
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(resp.status))
	L.SetField(result, "body", lua.LString(resp.body))
	L.SetField(result, "headers", headers)
	L.Push(result)
	return 1
}

func getStringField(tbl *lua.LTable, key string, def string) string {
	val := tbl.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}

var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once

	h1Transport = &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLS(ctx, network, addr, "http/1.1")
		},
	}
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr)
			},
		}
	})
	return h2Transport
}

func (r tlsRequest) build(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// doTLSRequest tries HTTP/2 and falls back to HTTP/1.1.
func doTLSRequest(ctx context.Context, r tlsRequest) (tlsResponse, error) {
	var resp *http.Response

	for _, transport := range []http.RoundTripper{getH2Transport(), h1Transport} {
		req, err := r.build(ctx)
		if err != nil {
			return tlsResponse{}, err
		}

		client := &http.Client{Timeout: httpTimeout, Transport: transport}
		if resp, err = client.Do(req); err == nil {
			break
		} else if transport == http.RoundTripper(h1Transport) {
			return tlsResponse{}, fmt.Errorf("request failed: %w", err)
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tlsResponse{status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	return tlsResponse{status: resp.StatusCode, body: string(body), headers: resp.Header}, nil
}

// dialTLS opens a Chrome-fingerprinted connection. protos restricts ALPN;
// empty keeps the fingerprint's own h2 and http/1.1 advertisement.
func dialTLS(ctx context.Context, network, addr string, protos ...string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: httpTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

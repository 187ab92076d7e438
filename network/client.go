// Package network holds the HTTP client shared by the front-end clients.
package network

import (
	"net/http"
	"time"
)

// Client outlives a long poll: its timeout must stay above frontend.poll_timeout.
var Client = &http.Client{
	Timeout:   2 * time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 90 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}

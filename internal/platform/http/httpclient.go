package http

import (
	"net"
	"net/http"
	"time"
)

// NewTransport returns the transport used for outbound calls to the object store.
//
// Settings:
//   - Proxy: honours HTTP_PROXY and friends
//   - Dialer.Timeout: shorter than the default TCP connect timeout
//   - MaxIdleConns / MaxIdleConnsPerHost: uploads go to a single host, so keep enough idle connections for it
//   - TLSHandshakeTimeout / ResponseHeaderTimeout: bound a stalled object store
//
// Per-call deadlines come from the request context, not from the transport.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
}

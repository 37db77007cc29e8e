// Package httpclient builds the pooled HTTP client shared by the gateways.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// New returns an HTTP client with connection pooling. Requests carry no
// deadline of their own; only connection setup is bounded, with the same
// limits as http.DefaultTransport.
func New() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}

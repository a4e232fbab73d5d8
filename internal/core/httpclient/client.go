// Package httpclient configures the HTTP client the AWS SDK clients send
// geocoding requests through.
package httpclient

import (
	"net"
	"net/http"
	"time"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
)

// NewOutbound returns a pooled client; timeout <= 0 means 30s. The SDK can
// still layer its own transport options on top, e.g. AWS_CA_BUNDLE.
func NewOutbound(timeout time.Duration) *awshttp.BuildableClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return awshttp.NewBuildableClient().
		WithTimeout(timeout).
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = 5 * time.Second
			d.KeepAlive = 30 * time.Second
		}).
		WithTransportOptions(func(t *http.Transport) {
			t.Proxy = http.ProxyFromEnvironment
			t.ForceAttemptHTTP2 = true
			t.MaxIdleConns = 64
			t.MaxIdleConnsPerHost = 32
			t.IdleConnTimeout = 90 * time.Second
			t.TLSHandshakeTimeout = 5 * time.Second
			t.ExpectContinueTimeout = 1 * time.Second
		})
}
